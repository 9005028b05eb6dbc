package config

import (
	"fmt"
	"os"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret  string // JWT署名シークレット
	AdminEmail string // この宛先だけADMIN扱い

	FrontendURL string // 決済後のリダイレクト先

	PaymentAPIBaseURL    string        // 決済プロセッサAPIのベースURL
	PaymentAPIKey        string        // 決済プロセッサのAPIキー
	PaymentWebhookSecret string        // webhook署名の共有シークレット
	PaymentTimeout       time.Duration // 外部決済呼び出しの上限

	// S3アップロード（未設定ならアップロードAPIは503）
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),

		FrontendURL: os.Getenv("FRONTEND_URL"),

		PaymentAPIBaseURL:    os.Getenv("PAYMENT_API_BASE_URL"),
		PaymentAPIKey:        os.Getenv("PAYMENT_API_KEY"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PaymentTimeout:       10 * time.Second,

		S3Region:          os.Getenv("S3_REGION"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),

		GoEnv: os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.FrontendURL == "" {
		return Config{}, fmt.Errorf("FRONTEND_URL is required")
	}
	if cfg.PaymentAPIBaseURL == "" {
		return Config{}, fmt.Errorf("PAYMENT_API_BASE_URL is required")
	}
	if cfg.PaymentAPIKey == "" {
		return Config{}, fmt.Errorf("PAYMENT_API_KEY is required")
	}
	if cfg.PaymentWebhookSecret == "" {
		return Config{}, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}
