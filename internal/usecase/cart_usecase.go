package usecase

import (
	"context"
	"net/http"

	repo "shop/internal/repository"
)

type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(cartRepo repo.CartRepository, cartItemRepo repo.CartItemRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo, cartItemRepo: cartItemRepo, productRepo: productRepo}
}

// カート明細に現在のカタログ情報を添えた表示用の形。
// 価格スナップショットは注文時に取るのでカートは常に現在価格。
type CartItemView struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type CartOutput struct {
	CartID int64          `json:"cart_id"`
	Items  []CartItemView `json:"items"`
	Total  int64          `json:"total"`
}

func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartOutput, error) {
	cart, err := u.cartRepo.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{CartID: cart.ID, Items: make([]CartItemView, 0, len(items))}
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			// 商品が削除されていたら明細は表示しない
			continue
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		sub := p.Price * it.Quantity
		out.Items = append(out.Items, CartItemView{
			ID:        it.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  it.Quantity,
			Subtotal:  sub,
		})
		out.Total += sub
	}

	return out, nil
}

func (u *CartUsecase) AddItem(ctx context.Context, customerID int64, productID int64, qty int64) error {
	if qty < 1 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}

	cart, err := u.cartRepo.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, productID, qty); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, customerID int64, cartItemID int64, qty int64) error {
	if qty < 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must not be negative")
	}

	if err := u.mustOwn(ctx, customerID, cartItemID); err != nil {
		return err
	}

	// 0は削除扱い
	if qty == 0 {
		if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, customerID int64, cartItemID int64) error {
	if err := u.mustOwn(ctx, customerID, cartItemID); err != nil {
		return err
	}
	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, customerID int64) error {
	cart, err := u.cartRepo.FindByCustomerID(ctx, customerID)
	if err == repo.ErrNotFound {
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 他人の明細は404で隠す。
func (u *CartUsecase) mustOwn(ctx context.Context, customerID int64, cartItemID int64) error {
	ok, err := u.cartItemRepo.IsOwnedByCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return nil
}
