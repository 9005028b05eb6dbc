package handler

import (
	"net/http"

	"shop/internal/domain/model"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// middleware.AuthJWT が入れた身元からローカルの顧客行を引く（無ければ作る）。
// 認証必須のハンドラは全部これを通る。
func resolveCustomer(c echo.Context, uc *usecase.CustomerUsecase) (model.Customer, error) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		return model.Customer{}, usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return uc.Resolve(c.Request().Context(), id.Subject, id.Email, id.Name)
}
