package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/config"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

func pdfBytes() []byte {
	return append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), 200)...)
}

func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 200)...)
}

func newStore(t *testing.T, maxSize int64) (*LocalFileStore, string) {
	dir := t.TempDir()
	return NewLocalFileStore(config.StorageConfig{
		BaseDir:     dir,
		PublicURL:   "/uploads/",
		MaxFileSize: maxSize,
	}, logger.NewNop()), dir
}

func TestLocalFileStore_Save(t *testing.T) {
	store, dir := newStore(t, 0)

	tests := []struct {
		name    string
		content []byte
		ext     string
	}{
		{"pdf", pdfBytes(), ".pdf"},
		{"png", pngBytes(), ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := store.Save(t.Context(), 4, "../../evil.exe", bytes.NewReader(tt.content))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, "/uploads/4/"), url)
			assert.True(t, strings.HasSuffix(url, tt.ext), url)

			stored, err := os.ReadFile(filepath.Join(dir, "4", filepath.Base(url)))
			require.NoError(t, err)
			assert.Equal(t, tt.content, stored)
		})
	}
}

func TestLocalFileStore_Rejects(t *testing.T) {
	store, _ := newStore(t, 1024)

	tests := []struct {
		name    string
		content []byte
	}{
		{"executable content", append([]byte("MZ"), bytes.Repeat([]byte{0x90}, 200)...)},
		{"html", []byte("<html><body>" + strings.Repeat("x", 200) + "</body></html>")},
		{"too small", []byte("%PDF-1.4")},
		{"too large", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), 2048)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(t.Context(), 1, "invoice.pdf", bytes.NewReader(tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}
