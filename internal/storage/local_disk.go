package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk 本機目錄（public disk）
type LocalDisk struct {
	name    string
	root    string
	baseURL string
}

func NewLocalDisk(name, root, baseURL string) *LocalDisk {
	return &LocalDisk{
		name:    name,
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (d *LocalDisk) Name() string {
	return d.name
}

func (d *LocalDisk) DeleteDirectory(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := d.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove %s: %w", target, err)
	}
	return nil
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/storage/" + strings.TrimLeft(path, "/")
}

// resolve 確保路徑落在 root 之內，且不會是 root 本身
func (d *LocalDisk) resolve(dir string) (string, error) {
	root, err := filepath.Abs(d.root)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.Clean("/"+dir))
	if target == root || !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("refusing to delete %q outside of disk %s", dir, d.name)
	}
	return target, nil
}
