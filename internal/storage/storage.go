// Package storage provides the key-value backends that persist per-user records.
package storage

import "context"

// KeyValue is a flat string-keyed byte store. A missing key is reported with
// found=false and a nil error.
type KeyValue interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
