package handler

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /auth/verify のHTTP。
// トークンの有効性と解決されたrole/顧客IDをフロントに返す。
type AuthHandler struct {
	customerUC *usecase.CustomerUsecase
}

// DI
func NewAuthHandler(customerUC *usecase.CustomerUsecase) *AuthHandler {
	return &AuthHandler{customerUC: customerUC}
}

type VerifyResponse struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/auth")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/verify", h.verify)
}

func (h *AuthHandler) verify(c echo.Context) error {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	customer, err := h.customerUC.Resolve(c.Request().Context(), id.Subject, id.Email, id.Name)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, VerifyResponse{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Name:       customer.Name,
		Role:       id.Role,
	})
}
