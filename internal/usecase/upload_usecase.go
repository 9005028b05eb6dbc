package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Presigner は署名付きアップロードURLの発行先。
type Presigner interface {
	PresignPut(ctx context.Context, key string, contentType string, expires time.Duration) (string, error)
}

// 発行するURLの有効期限。アップロードは即時に行われる前提。
const uploadURLExpiry = 60 * time.Second

type UploadUsecase struct {
	presigner Presigner
}

func NewUploadUsecase(presigner Presigner) *UploadUsecase {
	return &UploadUsecase{presigner: presigner}
}

type UploadOutput struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PresignImageUpload は商品画像のPUT URLを発行する。
// キーはuuidを前置して衝突を避ける。
func (u *UploadUsecase) PresignImageUpload(ctx context.Context, filename string, contentType string) (UploadOutput, error) {
	if u.presigner == nil {
		return UploadOutput{}, NewHTTPError(http.StatusServiceUnavailable, "uploads not configured")
	}
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return UploadOutput{}, NewHTTPError(http.StatusBadRequest, "invalid filename")
	}
	if !allowedContentTypes[contentType] {
		return UploadOutput{}, NewHTTPError(http.StatusBadRequest, "unsupported content type")
	}

	key := fmt.Sprintf("uploads/%s_%s", uuid.NewString(), filename)
	url, err := u.presigner.PresignPut(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return UploadOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to presign upload url")
	}

	return UploadOutput{URL: url, Key: key}, nil
}
