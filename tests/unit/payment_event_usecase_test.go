package unit

import (
	"context"
	"encoding/json"
	"testing"

	"shop/internal/domain/model"
	"shop/internal/payment"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func completedEvent(id string, sessionID string) payment.Event {
	raw := []byte(`{"id":"` + id + `","type":"checkout.session.completed","data":{"object":{"session_id":"` + sessionID + `"}}}`)
	var ev payment.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		panic(err)
	}
	return ev
}

func newReconcilerFixture() (*usecase.PaymentEventUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *InventoryRepoMock, *PaymentEventRepoMock) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	inventoryRepo := new(InventoryRepoMock)
	eventRepo := new(PaymentEventRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:        orderRepo,
		orderItems:    orderItemRepo,
		inventory:     inventoryRepo,
		paymentEvents: eventRepo,
	}}

	uc := usecase.NewPaymentEventUsecase(tx, nil)
	return uc, tx, orderRepo, orderItemRepo, inventoryRepo, eventRepo
}

// Test: 完了イベント以外は副作用なしで受領
func TestReconciler_IgnoresOtherEventTypes(t *testing.T) {
	uc, _, orderRepo, _, inventoryRepo, _ := newReconcilerFixture()

	ev := completedEvent("evt_1", "cs_1")
	ev.Type = "checkout.session.expired"

	err := uc.HandleEvent(context.Background(), ev)
	assert.NoError(t, err)

	orderRepo.AssertNotCalled(t, "FindBySessionID")
	inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough")
}

// Test: 未知のセッションは受領するだけ（注文もイベントも作らない）
func TestReconciler_UnknownSessionAcked(t *testing.T) {
	uc, tx, orderRepo, _, inventoryRepo, eventRepo := newReconcilerFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindBySessionID", mock.Anything, "cs_missing").Return(model.Order{}, repo.ErrNotFound)

	err := uc.HandleEvent(context.Background(), completedEvent("evt_1", "cs_missing"))
	assert.NoError(t, err)

	inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough")
	eventRepo.AssertNotCalled(t, "Create")
}

// Test: pending→paid。減算・ステータス・イベント記録が揃って行われる
func TestReconciler_AppliesPaidOnce(t *testing.T) {
	uc, tx, orderRepo, orderItemRepo, inventoryRepo, eventRepo := newReconcilerFixture()

	order := model.Order{ID: 42, CustomerID: 1, Status: model.OrderStatusPending, PaymentSessionID: "cs_1"}

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindBySessionID", mock.Anything, "cs_1").Return(order, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
	eventRepo.On("ExistsByEventID", mock.Anything, "evt_1").Return(false, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{OrderID: 42, ProductID: 10, Quantity: 2},
		{OrderID: 42, ProductID: 11, Quantity: 1},
	}, nil)
	inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(11), int64(1)).Return(true, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusPaid).Return(nil)
	eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev model.PaymentEvent) bool {
		return ev.EventID == "evt_1" && ev.OrderID == 42
	})).Return(nil)

	err := uc.HandleEvent(context.Background(), completedEvent("evt_1", "cs_1"))
	assert.NoError(t, err)

	inventoryRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

// Test: 適用済みイベントの再配送は副作用なし
func TestReconciler_DuplicateEventIsNoop(t *testing.T) {
	uc, tx, orderRepo, _, inventoryRepo, eventRepo := newReconcilerFixture()

	order := model.Order{ID: 42, Status: model.OrderStatusPaid, PaymentSessionID: "cs_1"}

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindBySessionID", mock.Anything, "cs_1").Return(order, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
	eventRepo.On("ExistsByEventID", mock.Anything, "evt_1").Return(true, nil)

	err := uc.HandleEvent(context.Background(), completedEvent("evt_1", "cs_1"))
	assert.NoError(t, err)

	inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough")
	orderRepo.AssertNotCalled(t, "UpdateStatus")
	eventRepo.AssertNotCalled(t, "Create")
}

// Test: 減算が競合で負けたらUNFULFILLABLEにしてイベントを記録、200扱い
func TestReconciler_OversoldMarksUnfulfillable(t *testing.T) {
	uc, tx, orderRepo, orderItemRepo, inventoryRepo, eventRepo := newReconcilerFixture()

	order := model.Order{ID: 42, Status: model.OrderStatusPending, PaymentSessionID: "cs_1"}

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindBySessionID", mock.Anything, "cs_1").Return(order, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
	eventRepo.On("ExistsByEventID", mock.Anything, "evt_1").Return(false, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{OrderID: 42, ProductID: 10, Quantity: 2},
	}, nil)
	// 在庫が足りない
	inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(false, nil)

	orderRepo.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusUnfulfillable).Return(nil)
	eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev model.PaymentEvent) bool {
		return ev.EventID == "evt_1" && ev.OrderID == 42
	})).Return(nil)

	err := uc.HandleEvent(context.Background(), completedEvent("evt_1", "cs_1"))
	assert.NoError(t, err)

	orderRepo.AssertCalled(t, "UpdateStatus", mock.Anything, int64(42), model.OrderStatusUnfulfillable)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, int64(42), model.OrderStatusPaid)
	eventRepo.AssertExpectations(t)
}

// Test: 終端の注文への完了イベントは記録だけして受領
func TestReconciler_TerminalOrderRecordsAndAcks(t *testing.T) {
	uc, tx, orderRepo, _, inventoryRepo, eventRepo := newReconcilerFixture()

	order := model.Order{ID: 42, Status: model.OrderStatusCanceled, PaymentSessionID: "cs_1"}

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindBySessionID", mock.Anything, "cs_1").Return(order, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
	eventRepo.On("ExistsByEventID", mock.Anything, "evt_1").Return(false, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.HandleEvent(context.Background(), completedEvent("evt_1", "cs_1"))
	assert.NoError(t, err)

	inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough")
	orderRepo.AssertNotCalled(t, "UpdateStatus")
	eventRepo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: DB障害はエラーで返す（プロセッサに再配送させる）
func TestReconciler_DBErrorPropagates(t *testing.T) {
	uc, tx, orderRepo, _, _, _ := newReconcilerFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindBySessionID", mock.Anything, "cs_1").Return(model.Order{}, assert.AnError)

	err := uc.HandleEvent(context.Background(), completedEvent("evt_1", "cs_1"))
	assert.Error(t, err)
}
