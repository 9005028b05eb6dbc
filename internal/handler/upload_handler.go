package handler

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/uploads の管理API。商品画像用の署名付きPUT URLを発行する。
type UploadHandler struct {
	uc *usecase.UploadUsecase
}

// DI
func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (h *UploadHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/uploads")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("/presign", h.presign)
}

func (h *UploadHandler) presign(c echo.Context) error {
	var req PresignUploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PresignImageUpload(c.Request().Context(), req.Filename, req.ContentType)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
