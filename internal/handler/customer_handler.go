package handler

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /me のHTTP（自分のプロフィール）
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

// DI
func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/me")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getProfile)
	g.PATCH("", h.updateProfile)
}

func (h *CustomerHandler) getProfile(c echo.Context) error {
	customer, err := resolveCustomer(c, h.uc)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetProfile(c.Request().Context(), customer.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) updateProfile(c echo.Context) error {
	customer, err := resolveCustomer(c, h.uc)
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), customer.ID, req.Name, req.Email)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
