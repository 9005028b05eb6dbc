package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// AdminOrderUsecase は管理者向けの注文操作。
// 管理者が行えるのはCANCELEDとREFUNDEDへの遷移だけ。
// PAIDとUNFULFILLABLEはwebhook側の専有で、手では付けられない。
type AdminOrderUsecase struct {
	tx            repo.TransactionManager
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	auditRepo     repo.AuditLogRepository
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	auditRepo repo.AuditLogRepository,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:            tx,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		auditRepo:     auditRepo,
	}
}

type AdminOrderListInput struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (OrderListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:       in.Page,
		Limit:      in.Limit,
		Status:     in.Status,
		CustomerID: in.CustomerID,
		From:       in.From,
		To:         in.To,
	})
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderListOutput{Orders: orders, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AdminOrderUsecase) GetDetail(ctx context.Context, orderID int64) (OrderDetailOutput, error) {
	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailOutput{Order: o, Items: items}, nil
}

// UpdateStatus は管理者による手動遷移。
// 遷移表で検証し、REFUNDEDは消費済み在庫を戻す。
// webhookと同じ行ロックの中で行うので遷移が食い違うことはない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminID int64, orderID int64, to model.OrderStatus) (model.Order, error) {
	if to != model.OrderStatusCanceled && to != model.OrderStatusRefunded {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "status must be CANCELED or REFUNDED")
	}

	var updated model.Order
	var prev model.OrderStatus
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !model.CanTransition(o.Status, to) {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		// 返金は確定済みの減算を打ち消す。
		if to == model.OrderStatusRefunded {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, to); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		prev = o.Status
		updated = o
		updated.Status = to
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.writeAudit(ctx, adminID, orderID, prev, to)

	return updated, nil
}

// 監査ログは本処理の成否に影響させない（失敗しても本体はコミット済み）。
func (u *AdminOrderUsecase) writeAudit(ctx context.Context, adminID int64, orderID int64, from model.OrderStatus, to model.OrderStatus) {
	before, _ := json.Marshal(map[string]any{"status": from})
	after, _ := json.Marshal(map[string]any{"status": to})
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorID:      adminID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(before),
		AfterJSON:    string(after),
		CreatedAt:    time.Now(),
	})
}
