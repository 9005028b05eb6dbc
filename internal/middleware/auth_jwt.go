package middleware

import (
	"errors"
	"net/http"
	"strings"

	"shop/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxSubjectKey = "subject" // string
	CtxEmailKey   = "email"   // string
	CtxNameKey    = "name"    // string
	CtxRoleKey    = "role"    // string
)

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// IDプロバイダが解決した身元。ここから先はこれだけを信用する。
type Identity struct {
	Subject string
	Email   string
	Name    string
	Role    string
}

// bearerAuth用のJWT検証ミドルウェア。
// 通ったらsubject/email/name/roleをcontextへ入れる。
// roleはリクエストごとに1回だけ判定する（設定のadmin email一致でADMIN）。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//subjectは必須
			subject, err := parseString(claims["sub"])
			if err != nil || subject == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			email, _ := parseString(claims["email"])
			name, _ := parseString(claims["name"])

			role := RoleClient
			if cfg.AdminEmail != "" && email == cfg.AdminEmail {
				role = RoleAdmin
			}

			//contextへ保存
			c.Set(CtxSubjectKey, subject)
			c.Set(CtxEmailKey, email)
			c.Set(CtxNameKey, name)
			c.Set(CtxRoleKey, role)

			return next(c)
		}
	}
}

// contextから身元を取り出す
func IdentityFromContext(c echo.Context) (Identity, bool) {
	subject, ok := c.Get(CtxSubjectKey).(string)
	if !ok || subject == "" {
		return Identity{}, false
	}

	email, _ := c.Get(CtxEmailKey).(string)
	name, _ := c.Get(CtxNameKey).(string)
	role, _ := c.Get(CtxRoleKey).(string)

	return Identity{
		Subject: subject,
		Email:   email,
		Name:    name,
		Role:    role,
	}, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
