package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMediaCollection 活動圖片所在的 collection（single file）
const DefaultMediaCollection = "default"

// Media 附加在模型上的檔案，實體檔案存放於 disk 上的 {id}/ 目錄
type Media struct {
	ID             int       `json:"id" db:"id"`
	ModelType      string    `json:"model_type" db:"model_type"`
	ModelID        int       `json:"model_id" db:"model_id"`
	UUID           uuid.UUID `json:"uuid" db:"uuid"`
	CollectionName string    `json:"collection_name" db:"collection_name"`
	Name           string    `json:"name" db:"name"`
	FileName       string    `json:"file_name" db:"file_name"`
	MimeType       *string   `json:"mime_type,omitempty" db:"mime_type"`
	Disk           string    `json:"disk" db:"disk"`
	Size           int64     `json:"size" db:"size"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Directory 檔案（含 conversions）所在的目錄
func (m *Media) Directory() string {
	return fmt.Sprintf("%d/", m.ID)
}

// Path 原始檔案的路徑
func (m *Media) Path() string {
	return m.Directory() + m.FileName
}

// ConversionPath 衍生檔（如 webp）的路徑：{id}/conversions/{檔名}-{conversion}.{ext}
func (m *Media) ConversionPath(conversion, ext string) string {
	base := strings.TrimSuffix(m.FileName, filepath.Ext(m.FileName))
	return fmt.Sprintf("%sconversions/%s-%s.%s", m.Directory(), base, conversion, ext)
}
