package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetDerivedFields(t *testing.T) {
	t.Run("extension and size", func(t *testing.T) {
		a := &Asset{Filename: "cover.png", FileSize: 3 * 1024 * 1024}
		assert.Equal(t, "png", a.FileExtension())
		assert.Equal(t, "3.00 MB", a.FileSizeMB())
	})

	t.Run("extension absent", func(t *testing.T) {
		a := &Asset{Filename: "noext"}
		assert.Equal(t, "", a.FileExtension())
	})

	t.Run("image dimensions from metadata", func(t *testing.T) {
		// После json.Unmarshal числа приходят как float64
		a := &Asset{Metadata: map[string]interface{}{"width": float64(1024), "height": float64(768)}}
		assert.Equal(t, "1024x768", a.Dimensions())
	})

	t.Run("dimensions empty without metadata", func(t *testing.T) {
		a := &Asset{Metadata: map[string]interface{}{"width": 512}}
		assert.Equal(t, "", a.Dimensions())
		assert.Equal(t, "", (&Asset{}).Dimensions())
	})

	t.Run("audio duration", func(t *testing.T) {
		a := &Asset{Metadata: map[string]interface{}{"duration": 12}}
		assert.Equal(t, 12, a.Duration())
		assert.Equal(t, 0, (&Asset{}).Duration())
	})
}
