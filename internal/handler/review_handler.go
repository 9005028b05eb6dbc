package handler

import (
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// レビューのHTTP。一覧は公開、投稿・編集は認証必須。
type ReviewHandler struct {
	uc         *usecase.ReviewUsecase
	customerUC *usecase.CustomerUsecase
}

// DI
func NewReviewHandler(uc *usecase.ReviewUsecase, customerUC *usecase.CustomerUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc, customerUC: customerUC}
}

type ReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

func (h *ReviewHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products/:id/reviews", h.listByProduct)

	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("/products/:id/reviews", h.create)
	g.PUT("/reviews/:id", h.update)
	g.DELETE("/reviews/:id", h.delete)
}

func (h *ReviewHandler) listByProduct(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	rs, err := h.uc.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rs)
}

func (h *ReviewHandler) create(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	r, err := h.uc.Create(c.Request().Context(), customer.ID, productID, req.Rating, req.ReviewText)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, r)
}

func (h *ReviewHandler) update(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	r, err := h.uc.Update(c.Request().Context(), customer.ID, reviewID, req.Rating, req.ReviewText)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) delete(c echo.Context) error {
	customer, err := resolveCustomer(c, h.customerUC)
	if err != nil {
		return writeError(c, err)
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), customer.ID, reviewID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "review deleted"})
}
