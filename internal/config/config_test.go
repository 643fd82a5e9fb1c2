package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadAllowedTypesFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_FILE_TYPES", "image/webp, image/png,")

	cfg := Load()

	assert.Equal(t, []string{"image/webp", "image/png"}, cfg.Upload.AllowedTypes)
}

func TestUploadAllowedTypesDefault(t *testing.T) {
	t.Setenv("ALLOWED_FILE_TYPES", "")

	cfg := Load()

	assert.Equal(t,
		[]string{"image/jpeg", "image/png", "image/jpg", "application/pdf"},
		cfg.Upload.AllowedTypes)
}

func TestMaxFileSizeFromEnv(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "5242880")

	cfg := Load()

	assert.Equal(t, int64(5242880), cfg.Upload.MaxFileSize)
}
