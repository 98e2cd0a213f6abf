package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// キーと値（バイト列）の保存だけを約束。
// 値は丸ごと上書きで、部分更新はしない。
type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
