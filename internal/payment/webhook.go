package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// プロセッサが付ける署名ヘッダ。形式は "t=<unix>,v1=<hex hmac>"。
	SignatureHeader = "Webhook-Signature"

	// 決済完了イベント
	EventTypeSessionCompleted = "checkout.session.completed"
)

var ErrInvalidSignature = errors.New("invalid signature")

// webhookのイベントペイロード
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			SessionID string `json:"session_id"`
		} `json:"object"`
	} `json:"data"`
}

func ParseEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, err
	}
	if ev.ID == "" || ev.Type == "" {
		return Event{}, errors.New("missing event id or type")
	}
	return ev, nil
}

// Sign は検証と同じ方式で署名ヘッダ値を作る（テストと送信側用）。
func Sign(secret []byte, ts time.Time, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature は署名ヘッダを検証する。
// 検証できないものは全部ErrInvalidSignature（fail closed）。
func VerifySignature(secret []byte, header string, body []byte, now time.Time, tolerance time.Duration) error {
	if header == "" {
		return ErrInvalidSignature
	}

	var tsPart, sigPart string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			tsPart = kv[1]
		case "v1":
			sigPart = kv[1]
		}
	}
	if tsPart == "" || sigPart == "" {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}

	//リプレイ対策：古すぎる/未来すぎるタイムスタンプは拒否
	if tolerance > 0 {
		diff := now.Sub(time.Unix(ts, 0))
		if diff > tolerance || diff < -tolerance {
			return ErrInvalidSignature
		}
	}

	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(sigPart)
	if err != nil {
		return ErrInvalidSignature
	}

	if !hmac.Equal(expected, got) {
		return ErrInvalidSignature
	}
	return nil
}
