package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Disk stores blobs under a local directory. Used in development and tests.
type Disk struct {
	root      string
	publicURL string
}

func NewDisk(root, publicURL string) *Disk {
	return &Disk{root: root, publicURL: publicURL}
}

func (d *Disk) Save(ctx context.Context, key string, contentType string, body io.Reader) error {
	path := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (d *Disk) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *Disk) URL(key string) string {
	return fmt.Sprintf("%s/%s", d.publicURL, key)
}
