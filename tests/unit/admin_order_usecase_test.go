package unit

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderFixture() (*usecase.AdminOrderUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *InventoryRepoMock, *AuditRepoMock) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	inventoryRepo := new(InventoryRepoMock)
	auditRepo := new(AuditRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:     orderRepo,
		orderItems: orderItemRepo,
		inventory:  inventoryRepo,
	}}

	uc := usecase.NewAdminOrderUsecase(tx, orderRepo, orderItemRepo, auditRepo)
	return uc, tx, orderRepo, orderItemRepo, inventoryRepo, auditRepo
}

// Test: 管理者が付けられるのはCANCELEDとREFUNDEDだけ
func TestAdminUpdateStatus_RejectsReservedStatuses(t *testing.T) {
	uc, _, orderRepo, _, _, _ := newAdminOrderFixture()

	for _, to := range []model.OrderStatus{model.OrderStatusPaid, model.OrderStatusPending, model.OrderStatusUnfulfillable} {
		_, err := uc.UpdateStatus(context.Background(), 1, 42, to)
		assertErrContains(t, err, "CANCELED or REFUNDED")
	}

	orderRepo.AssertNotCalled(t, "UpdateStatus")
}

// Test: 遷移表に無い遷移は409
func TestAdminUpdateStatus_InvalidTransition(t *testing.T) {
	uc, tx, orderRepo, _, _, _ := newAdminOrderFixture()

	// CANCELED→REFUNDEDは許可されない
	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusCanceled,
	}, nil)

	_, err := uc.UpdateStatus(context.Background(), 1, 42, model.OrderStatusRefunded)
	assertErrContains(t, err, "invalid status transition")

	orderRepo.AssertNotCalled(t, "UpdateStatus")
}

// Test: PENDINGのキャンセルは在庫を触らない
func TestAdminUpdateStatus_CancelPending(t *testing.T) {
	uc, tx, orderRepo, _, inventoryRepo, auditRepo := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusPending,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusCanceled).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	o, err := uc.UpdateStatus(context.Background(), 1, 42, model.OrderStatusCanceled)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, o.Status)

	inventoryRepo.AssertNotCalled(t, "IncreaseStock")
}

// Test: 返金は確定済みの減算を戻す
func TestAdminUpdateStatus_RefundRestoresStock(t *testing.T) {
	uc, tx, orderRepo, orderItemRepo, inventoryRepo, auditRepo := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusPaid,
	}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{OrderID: 42, ProductID: 10, Quantity: 2},
		{OrderID: 42, ProductID: 11, Quantity: 1},
	}, nil)
	inventoryRepo.On("IncreaseStock", mock.Anything, int64(10), int64(2)).Return(nil)
	inventoryRepo.On("IncreaseStock", mock.Anything, int64(11), int64(1)).Return(nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusRefunded).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 42
	})).Return(nil)

	o, err := uc.UpdateStatus(context.Background(), 1, 42, model.OrderStatusRefunded)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefunded, o.Status)

	inventoryRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}
