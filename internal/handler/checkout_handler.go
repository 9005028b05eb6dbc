package handler

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout のHTTP。決済セッションを作ってリダイレクトURLを返す。
type CheckoutHandler struct {
	uc         *usecase.CheckoutUsecase
	customerUC *usecase.CustomerUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase, customerUC *usecase.CustomerUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, customerUC: customerUC}
}

type CheckoutItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CheckoutRequest struct {
	Items []CheckoutItemRequest `json:"items"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkoutItems)
	g.POST("/cart", h.checkoutCart)
}

// 明細を直接指定するチェックアウト
func (h *CheckoutHandler) checkoutItems(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	lines := make([]usecase.CheckoutLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.CheckoutLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	out, err := h.uc.CheckoutItems(c.Request().Context(), customer.ID, lines)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// カートの中身でチェックアウト
func (h *CheckoutHandler) checkoutCart(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.CheckoutCart(c.Request().Context(), customer.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
