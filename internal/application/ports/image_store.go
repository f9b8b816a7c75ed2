package ports

import (
	"context"
	"io"
	"mime/multipart"

	"manager-account-api/internal/domain/account"
)

type ObjectStorage interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	GetPublicURL(key string) string
	GetBucket() string
}

// ProfileImages uploads an account's picture and returns the stored path.
type ProfileImages interface {
	Upload(ctx context.Context, accountID account.ID, in *multipart.FileHeader) (string, error)
}
