package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage is the blob collaborator. Guard evaluation never touches it;
// handlers write through it only after all guards pass.
type Storage interface {
	Save(ctx context.Context, key string, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewKey builds a collision-free object key under prefix, keeping the
// original file extension for content-type sniffing on delivery.
func NewKey(prefix, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}
