package handler

import (
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /favorites のHTTP
type FavoriteHandler struct {
	uc         *usecase.FavoriteUsecase
	customerUC *usecase.CustomerUsecase
}

// DI
func NewFavoriteHandler(uc *usecase.FavoriteUsecase, customerUC *usecase.CustomerUsecase) *FavoriteHandler {
	return &FavoriteHandler{uc: uc, customerUC: customerUC}
}

type AddFavoriteRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *FavoriteHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/favorites")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.add)
	g.DELETE("/:id", h.remove)
}

func (h *FavoriteHandler) list(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), customer.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *FavoriteHandler) add(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	var req AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	f, err := h.uc.Add(c.Request().Context(), customer.ID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, f)
}

func (h *FavoriteHandler) remove(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Remove(c.Request().Context(), customer.ID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "favorite removed"})
}
