package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shop/internal/domain/model"
	"shop/internal/metrics"
	"shop/internal/payment"
	repo "shop/internal/repository"
)

// CheckoutUsecase はカート（または直接指定の明細）を
// 決済セッション＋PENDING注文に変換する。
//
// 在庫はここでは確定しない。チェックアウト時の在庫チェックは
// 早期失敗のためのアドバイザリで、確定はwebhook側の条件付き減算。
type CheckoutUsecase struct {
	tx           repo.TransactionManager
	productRepo  repo.ProductRepository
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	pay          payment.Client
	frontendURL  string
	m            *metrics.ShopMetrics
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	pay payment.Client,
	frontendURL string,
	m *metrics.ShopMetrics,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:           tx,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		pay:          pay,
		frontendURL:  frontendURL,
		m:            m,
	}
}

type CheckoutLine struct {
	ProductID int64
	Quantity  int64
}

type CheckoutOutput struct {
	OrderID     int64  `json:"order_id"`
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"url"`
}

// 明細を直接指定してチェックアウト（カートは触らない）。
func (u *CheckoutUsecase) CheckoutItems(ctx context.Context, customerID int64, lines []CheckoutLine) (CheckoutOutput, error) {
	return u.checkout(ctx, customerID, lines, 0)
}

// カートの中身でチェックアウト。注文が永続化できたらカートを空にする。
func (u *CheckoutUsecase) CheckoutCart(ctx context.Context, customerID int64) (CheckoutOutput, error) {
	if customerID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByCustomerID(ctx, customerID)
	if err == repo.ErrNotFound {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	lines := make([]CheckoutLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CheckoutLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	return u.checkout(ctx, customerID, lines, cart.ID)
}

// cartID > 0 のときだけ注文永続化後にカートを空にする。
func (u *CheckoutUsecase) checkout(ctx context.Context, customerID int64, lines []CheckoutLine, cartID int64) (CheckoutOutput, error) {
	if customerID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(lines) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "items must not be empty")
	}
	for _, l := range lines {
		if l.ProductID <= 0 || l.Quantity < 1 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid items")
		}
	}

	// 1. アドバイザリ在庫チェック＋価格スナップショット。
	//    外部呼び出しの前に全明細を検証し、どの商品が駄目かを返す。
	orderItems := make([]model.OrderItem, 0, len(lines))
	lineItems := make([]payment.LineItem, 0, len(lines))
	var total int64 = 0
	now := time.Now()

	for _, l := range lines {
		p, err := u.productRepo.FindByID(ctx, l.ProductID)
		if err == repo.ErrNotFound {
			u.countCheckout("rejected")
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %d not found", l.ProductID))
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			u.countCheckout("rejected")
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %d not found", l.ProductID))
		}
		if p.Stock < l.Quantity {
			u.countCheckout("rejected")
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock for product %s", p.Name))
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.Price,
			Quantity:            l.Quantity,
			CreatedAt:           now,
		})
		lineItems = append(lineItems, payment.LineItem{
			Description: p.Name,
			UnitAmount:  p.Price,
			Quantity:    l.Quantity,
		})

		total += p.Price * l.Quantity
	}

	// 2. 決済セッション作成。ロックは一切持たずに呼ぶ。
	//    失敗したら何も残らないのでチェックアウト全体を安全に再試行できる。
	session, err := u.pay.CreateSession(ctx, payment.CreateSessionInput{
		LineItems:  lineItems,
		SuccessURL: u.frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  u.frontendURL + "/cancel",
	})
	if err != nil {
		u.countCheckout("session_failed")
		if errors.Is(err, payment.ErrSessionCreationFailed) {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment session creation failed")
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment session creation failed")
	}

	// 3. PENDING注文＋明細を1トランザクションで永続化。
	//    ここで失敗したセッションは孤児になるが回収可能な異常として許容する。
	//    カートのクリアは注文が確実に入った後、同じTxの中で行う。
	var orderID int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, model.Order{
			CustomerID:       customerID,
			Status:           model.OrderStatusPending,
			Amount:           total,
			PaymentSessionID: session.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, id, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if cartID > 0 {
			if err := r.Carts().Clear(ctx, cartID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		orderID = id
		return nil
	})
	if err != nil {
		u.countCheckout("persist_failed")
		return CheckoutOutput{}, err
	}

	u.countCheckout("ok")
	return CheckoutOutput{
		OrderID:     orderID,
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

func (u *CheckoutUsecase) countCheckout(result string) {
	if u.m != nil {
		u.m.Checkouts.WithLabelValues(result).Inc()
	}
}
