package unit

import (
	"context"
	"strings"
	"testing"

	"shop/internal/domain/model"
	"shop/internal/payment"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func newCheckoutFixture() (*usecase.CheckoutUsecase, *TxManagerMock, *ProductRepoMock, *CartRepoMock, *CartItemRepoMock, *OrderRepoMock, *OrderItemRepoMock, *PaymentClientMock) {
	productRepo := new(ProductRepoMock)
	cartRepo := new(CartRepoMock)
	cartItemRepo := new(CartItemRepoMock)
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	pay := new(PaymentClientMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:     orderRepo,
		orderItems: orderItemRepo,
		carts:      cartRepo,
		cartItems:  cartItemRepo,
	}}

	uc := usecase.NewCheckoutUsecase(tx, productRepo, cartRepo, cartItemRepo, pay, "https://front.example", nil)
	return uc, tx, productRepo, cartRepo, cartItemRepo, orderRepo, orderItemRepo, pay
}

// Test: 空明細は拒否
func TestCheckout_EmptyItems(t *testing.T) {
	uc, _, _, _, _, _, _, pay := newCheckoutFixture()

	_, err := uc.CheckoutItems(context.Background(), 1, nil)
	assertErrContains(t, err, "items must not be empty")

	pay.AssertNotCalled(t, "CreateSession")
}

// Test: 数量0は拒否
func TestCheckout_InvalidQuantity(t *testing.T) {
	uc, _, _, _, _, _, _, pay := newCheckoutFixture()

	_, err := uc.CheckoutItems(context.Background(), 1, []usecase.CheckoutLine{
		{ProductID: 10, Quantity: 0},
	})
	assertErrContains(t, err, "invalid items")

	pay.AssertNotCalled(t, "CreateSession")
}

// Test: 在庫不足は外部呼び出し前に拒否（アドバイザリチェック）
func TestCheckout_InsufficientStockRejectedBeforeSession(t *testing.T) {
	uc, _, productRepo, _, _, orderRepo, _, pay := newCheckoutFixture()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "mug", Price: 1500, Stock: 1, IsActive: true,
	}, nil)

	_, err := uc.CheckoutItems(context.Background(), 1, []usecase.CheckoutLine{
		{ProductID: 10, Quantity: 3},
	})
	assertErrContains(t, err, "insufficient stock")

	pay.AssertNotCalled(t, "CreateSession")
	orderRepo.AssertNotCalled(t, "Create")
}

// Test: 非公開商品は存在しない扱い
func TestCheckout_InactiveProduct(t *testing.T) {
	uc, _, productRepo, _, _, _, _, pay := newCheckoutFixture()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "mug", Price: 1500, Stock: 5, IsActive: false,
	}, nil)

	_, err := uc.CheckoutItems(context.Background(), 1, []usecase.CheckoutLine{
		{ProductID: 10, Quantity: 1},
	})
	assertErrContains(t, err, "not found")

	pay.AssertNotCalled(t, "CreateSession")
}

// Test: セッション作成失敗なら注文は作られない
func TestCheckout_SessionFailureLeavesNothing(t *testing.T) {
	uc, _, productRepo, _, _, orderRepo, _, pay := newCheckoutFixture()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "mug", Price: 1500, Stock: 5, IsActive: true,
	}, nil)
	pay.On("CreateSession", mock.Anything, mock.Anything).Return(payment.Session{}, payment.ErrSessionCreationFailed)

	_, err := uc.CheckoutItems(context.Background(), 1, []usecase.CheckoutLine{
		{ProductID: 10, Quantity: 2},
	})
	assertErrContains(t, err, "payment session creation failed")

	orderRepo.AssertNotCalled(t, "Create")
}

// Test: 成功時はスナップショット価格でPENDING注文が作られる
func TestCheckout_Success(t *testing.T) {
	uc, tx, productRepo, _, _, orderRepo, orderItemRepo, pay := newCheckoutFixture()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "mug", Price: 1500, Stock: 5, IsActive: true,
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(11)).Return(model.Product{
		ID: 11, Name: "shirt", Price: 3000, Stock: 2, IsActive: true,
	}, nil)

	pay.On("CreateSession", mock.Anything, mock.Anything).Return(payment.Session{
		ID:          "cs_123",
		RedirectURL: "https://pay.example/cs_123",
	}, nil)

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		// 2*1500 + 1*3000
		return o.Status == model.OrderStatusPending &&
			o.Amount == 6000 &&
			o.PaymentSessionID == "cs_123" &&
			o.CustomerID == 1
	})).Return(int64(42), nil)
	orderItemRepo.On("CreateBulk", mock.Anything, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].UnitPriceSnapshot == 1500 &&
			items[0].ProductNameSnapshot == "mug" &&
			items[1].UnitPriceSnapshot == 3000
	})).Return(nil)

	out, err := uc.CheckoutItems(context.Background(), 1, []usecase.CheckoutLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.OrderID)
	assert.Equal(t, "cs_123", out.SessionID)
	assert.Equal(t, "https://pay.example/cs_123", out.RedirectURL)

	orderRepo.AssertExpectations(t)
	orderItemRepo.AssertExpectations(t)
}

// Test: カートチェックアウトは成功時に明細を消す
func TestCheckoutCart_ClearsCartInSameTx(t *testing.T) {
	uc, tx, productRepo, cartRepo, cartItemRepo, orderRepo, orderItemRepo, pay := newCheckoutFixture()

	cartRepo.On("FindByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, CustomerID: 1}, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 1, CartID: 7, ProductID: 10, Quantity: 2},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "mug", Price: 1500, Stock: 5, IsActive: true,
	}, nil)
	pay.On("CreateSession", mock.Anything, mock.Anything).Return(payment.Session{ID: "cs_9", RedirectURL: "https://pay.example/cs_9"}, nil)

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(43), nil)
	orderItemRepo.On("CreateBulk", mock.Anything, int64(43), mock.Anything).Return(nil)
	cartRepo.On("Clear", mock.Anything, int64(7)).Return(nil)

	out, err := uc.CheckoutCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(43), out.OrderID)

	cartRepo.AssertCalled(t, "Clear", mock.Anything, int64(7))
}

// Test: 空カートは400
func TestCheckoutCart_Empty(t *testing.T) {
	uc, _, _, cartRepo, cartItemRepo, _, _, pay := newCheckoutFixture()

	cartRepo.On("FindByCustomerID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.CheckoutCart(context.Background(), 1)
	assertErrContains(t, err, "cart empty")

	cartItemRepo.AssertNotCalled(t, "ListByCartID")
	pay.AssertNotCalled(t, "CreateSession")
}
