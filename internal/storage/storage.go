package storage

import (
	"context"
	"fmt"
	"sort"

	appconfig "running-events-backend/config"
	apperrors "running-events-backend/pkg/app_errors"
)

// Disk 媒體檔案所在的儲存空間
type Disk interface {
	Name() string
	// DeleteDirectory 刪除目錄底下所有檔案（原圖與 conversions），目錄不存在不算錯誤
	DeleteDirectory(ctx context.Context, dir string) error
	// URL 回傳檔案的公開網址
	URL(path string) string
}

// Registry 依 media.disk 欄位找到對應的 Disk
type Registry interface {
	Get(name string) (Disk, error)
	Names() []string
}

type RegistryImpl struct {
	disks map[string]Disk
}

func NewRegistry(disks ...Disk) Registry {
	r := &RegistryImpl{disks: make(map[string]Disk, len(disks))}
	for _, d := range disks {
		r.disks[d.Name()] = d
	}
	return r
}

func (r *RegistryImpl) Get(name string) (Disk, error) {
	d, ok := r.disks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownDisk, name)
	}
	return d, nil
}

func (r *RegistryImpl) Names() []string {
	names := make([]string, 0, len(r.disks))
	for name := range r.disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig 一律註冊 public 磁碟，有設定 bucket 時再加上 r2
func NewRegistryFromConfig(ctx context.Context, cfg appconfig.StorageConfig) (Registry, error) {
	disks := []Disk{NewLocalDisk("public", cfg.PublicRoot, cfg.AppURL)}

	if cfg.R2.Enabled() {
		client, err := NewR2Client(ctx, cfg.R2)
		if err != nil {
			return nil, err
		}
		disks = append(disks, NewR2Disk("r2", cfg.R2.Bucket, cfg.R2.PublicURL, client))
	}

	return NewRegistry(disks...), nil
}
