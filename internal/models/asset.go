package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Типы медиа-ресурсов.
const (
	AssetTypeImage = "image"
	AssetTypeSound = "sound"
	AssetTypeVideo = "video"
)

// AllAssetTypes returns every supported asset type.
func AllAssetTypes() []string {
	return []string{AssetTypeImage, AssetTypeSound, AssetTypeVideo}
}

// IsValidAssetType проверяет, что тип входит в список поддерживаемых.
func IsValidAssetType(t string) bool {
	for _, at := range AllAssetTypes() {
		if at == t {
			return true
		}
	}
	return false
}

// Asset is a stored media file (uploaded or generated) plus its metadata.
// Metadata keys depend on the type: images carry width/height/format,
// audio carries duration/sound_type/voice.
type Asset struct {
	ID         uuid.UUID              `db:"id" json:"id"`
	AssetType  string                 `db:"asset_type" json:"assetType"`
	Name       string                 `db:"name" json:"name"`
	Filename   string                 `db:"filename" json:"filename"`
	URL        string                 `db:"url" json:"url"`
	FileSize   int64                  `db:"file_size" json:"fileSize"`
	MimeType   string                 `db:"mime_type" json:"mimeType"`
	Metadata   map[string]interface{} `db:"metadata" json:"metadata"`
	UploadedBy uuid.UUID              `db:"uploaded_by" json:"uploadedBy"`
	IsPublic   bool                   `db:"is_public" json:"isPublic"`
	CreatedAt  time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time              `db:"updated_at" json:"updatedAt"`
}

// FileExtension returns the filename extension without the leading dot.
func (a *Asset) FileExtension() string {
	return strings.TrimPrefix(filepath.Ext(a.Filename), ".")
}

// FileSizeMB returns the stored size formatted in megabytes.
func (a *Asset) FileSizeMB() string {
	return fmt.Sprintf("%.2f MB", float64(a.FileSize)/(1024*1024))
}

// Dimensions returns "WxH" for images, or "" when the metadata is absent.
func (a *Asset) Dimensions() string {
	w, wok := metadataNumber(a.Metadata, "width")
	h, hok := metadataNumber(a.Metadata, "height")
	if !wok || !hok {
		return ""
	}
	return fmt.Sprintf("%dx%d", w, h)
}

// Duration returns the audio duration in seconds, or 0 when unknown.
func (a *Asset) Duration() int {
	d, ok := metadataNumber(a.Metadata, "duration")
	if !ok {
		return 0
	}
	return d
}

// metadataNumber достает числовое поле из metadata; после json.Unmarshal
// числа приходят как float64.
func metadataNumber(m map[string]interface{}, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
