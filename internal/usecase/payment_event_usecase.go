package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"shop/internal/domain/model"
	"shop/internal/metrics"
	"shop/internal/payment"
	repo "shop/internal/repository"
)

// PaymentEventUsecase は決済プロセッサのwebhookイベントを注文に適用する。
// pending→paid遷移と在庫の確定減算はここだけが行う。
//
// 冪等性：適用済みイベントはpayment_eventsに残るので、
// 同じイベントが何回来ても減算は1回きり。
type PaymentEventUsecase struct {
	tx repo.TransactionManager
	m  *metrics.ShopMetrics
}

func NewPaymentEventUsecase(tx repo.TransactionManager, m *metrics.ShopMetrics) *PaymentEventUsecase {
	return &PaymentEventUsecase{tx: tx, m: m}
}

// 減算が競合で失敗したことを運ぶ内部エラー。
// Txをロールバックさせるために使う（部分減算を残さない）。
type oversoldError struct {
	OrderID   int64
	ProductID int64
}

func (e *oversoldError) Error() string {
	return fmt.Sprintf("oversold: order=%d product=%d", e.OrderID, e.ProductID)
}

// HandleEvent は検証済みイベントを1件処理する。
// 戻り値がnilならwebhookは200を返してよい。
// エラーはDB障害などの再試行可能な失敗だけ（プロセッサに再配送してもらう）。
func (u *PaymentEventUsecase) HandleEvent(ctx context.Context, ev payment.Event) error {
	// 完了イベント以外は受領だけして何もしない。
	// 未知のイベント種別で落とさないこと（落とすのは検証不能なものだけ）。
	if ev.Type != payment.EventTypeSessionCompleted {
		u.countWebhook("ignored")
		return nil
	}

	sessionID := ev.Data.Object.SessionID
	if sessionID == "" {
		u.countWebhook("ignored")
		return nil
	}

	outcome := ""

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindBySessionID(ctx, sessionID)
		if err == repo.ErrNotFound {
			// 知らないセッション。別環境やリプレイの可能性があるので
			// エラーにせず受領する（再配送の嵐を避ける）。
			outcome = "unknown_session"
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return u.applyPaid(ctx, r, o.ID, ev, &outcome)
	})

	if err != nil {
		var ov *oversoldError
		if errors.As(err, &ov) {
			// 減算はロールバック済み。別Txで注文をUNFULFILLABLEへ。
			// 決済は済んでいるのでオペレーター対応に回す。
			if mErr := u.markUnfulfillable(ctx, ov.OrderID, ev); mErr != nil {
				return mErr
			}
			log.Printf("payment event %s: order %d unfulfillable (product %d oversold), needs operator action", ev.ID, ov.OrderID, ov.ProductID)
			u.countWebhook("unfulfillable")
			if u.m != nil {
				u.m.Oversold.Inc()
			}
			return nil
		}
		return err
	}

	u.countWebhook(outcome)
	return nil
}

// applyPaid は注文の行ロックを取ってpending→paidを適用する。
// ステータス書き込み・在庫減算・イベント記録は同一Tx。
// どれかが落ちたら全部ロールバックされ、イベントは未処理のまま残る。
func (u *PaymentEventUsecase) applyPaid(ctx context.Context, r repo.TxRepos, orderID int64, ev payment.Event, outcome *string) error {
	o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 適用済みイベントのリプレイは現状のまま返す（副作用なし）
	seen, err := r.PaymentEvents().ExistsByEventID(ctx, ev.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if seen {
		*outcome = "duplicate"
		return nil
	}

	if !model.CanTransition(o.Status, model.OrderStatusPaid) {
		// 別イベントで遷移済みの注文への新イベント。
		// 順序異常なのでログに残し、受領記録だけして終わる。
		log.Printf("payment event %s: invalid transition %s -> PAID for order %d", ev.ID, o.Status, o.ID)
		if err := r.PaymentEvents().Create(ctx, model.PaymentEvent{
			EventID:   ev.ID,
			OrderID:   o.ID,
			EventType: ev.Type,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		*outcome = "invalid_transition"
		return nil
	}

	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 在庫の確定減算。条件付きUPDATEなので並行確定でも負数にならない。
	// 1明細でも足りなければ注文全体を諦める（部分減算はTxロールバックで消える）。
	for _, it := range items {
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return &oversoldError{OrderID: o.ID, ProductID: it.ProductID}
		}
	}

	if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusPaid); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := r.PaymentEvents().Create(ctx, model.PaymentEvent{
		EventID:   ev.ID,
		OrderID:   o.ID,
		EventType: ev.Type,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	*outcome = "paid"
	return nil
}

// markUnfulfillable は減算に失敗した注文をUNFULFILLABLEにしてイベントを記録する。
// ロックを取り直して再確認する（並行配送がすでに処理した場合は何もしない）。
func (u *PaymentEventUsecase) markUnfulfillable(ctx context.Context, orderID int64, ev payment.Event) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		seen, err := r.PaymentEvents().ExistsByEventID(ctx, ev.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if seen {
			return nil
		}

		if o.Status == model.OrderStatusPending {
			if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusUnfulfillable); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		return r.PaymentEvents().Create(ctx, model.PaymentEvent{
			EventID:   ev.ID,
			OrderID:   o.ID,
			EventType: ev.Type,
		})
	})
}

func (u *PaymentEventUsecase) countWebhook(outcome string) {
	if u.m != nil && outcome != "" {
		u.m.WebhookEvents.WithLabelValues(outcome).Inc()
	}
}
