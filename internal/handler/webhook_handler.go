package handler

import (
	"io"
	"net/http"
	"time"

	"shop/internal/payment"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 署名タイムスタンプの許容ずれ。リプレイ対策。
const webhookTolerance = 5 * time.Minute

// /webhooks/payment のHTTP。
// 署名検証だけここで行い、適用はusecaseに任せる。
type WebhookHandler struct {
	uc     *usecase.PaymentEventUsecase
	secret string
}

// DI
func NewWebhookHandler(uc *usecase.PaymentEventUsecase, secret string) *WebhookHandler {
	return &WebhookHandler{uc: uc, secret: secret}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	// 認証ミドルウェアは通さない。身元は署名で確認する。
	e.POST("/webhooks/payment", h.receive)
}

func (h *WebhookHandler) receive(c echo.Context) error {
	// 署名は生のバイト列に対して計算されるので先に読む
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sig := c.Request().Header.Get(payment.SignatureHeader)
	if err := payment.VerifySignature([]byte(h.secret), sig, body, time.Now(), webhookTolerance); err != nil {
		// 検証できないものは処理しない（fail closed）
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
	}

	ev, err := payment.ParseEvent(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	// エラーはDB障害などの再試行可能なものだけ。
	// 500を返せばプロセッサが再配送してくれる（イベントは未適用のまま）。
	if err := h.uc.HandleEvent(c.Request().Context(), ev); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "received"})
}
