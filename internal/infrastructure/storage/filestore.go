package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/config"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

const (
	defaultMaxFileSize  = 10 << 20 // 10MB
	minFileSize         = 100      // rejects empty or truncated uploads
	fileNameRandomBytes = 16
)

// allowedMIMETypes maps the detected content type to the stored extension.
// The client-supplied name and content type are never trusted.
var allowedMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

// LocalFileStore keeps invoice documents and proofs of payment on local disk,
// one directory per tenant.
type LocalFileStore struct {
	baseDir   string
	publicURL string
	maxSize   int64
	logger    logger.Interface
}

func NewLocalFileStore(cfg config.StorageConfig, logger logger.Interface) *LocalFileStore {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	return &LocalFileStore{
		baseDir:   cfg.BaseDir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxSize:   maxSize,
		logger:    logger,
	}
}

func (s *LocalFileStore) Save(ctx context.Context, tenantID uint, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxSize {
		return "", errors.NewValidationError(fmt.Sprintf("file exceeds the %d MB limit", s.maxSize>>20))
	}
	if len(content) < minFileSize {
		return "", errors.NewValidationError("file is too small or empty")
	}

	detected := mimetype.Detect(content).String()
	ext, ok := allowedMIMETypes[detected]
	if !ok {
		s.logger.Warnw("rejected upload with disallowed content type",
			"detected_mime", detected,
			"filename", filename,
			"tenant_id", tenantID,
		)
		return "", errors.NewValidationError("only PDF, PNG and JPEG files are allowed")
	}

	name, err := randomName(ext)
	if err != nil {
		return "", err
	}
	tenantDir := strconv.FormatUint(uint64(tenantID), 10)
	dir := filepath.Join(s.baseDir, tenantDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst := filepath.Join(dir, name)
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload path: %w", err)
	}
	if !strings.HasPrefix(absDst, absDir+string(filepath.Separator)) {
		return "", errors.NewValidationError("invalid filename")
	}

	if err := os.WriteFile(dst, content, 0640); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	s.logger.Infow("file stored", "tenant_id", tenantID, "name", name, "mime", detected, "bytes", len(content))
	return s.publicURL + "/" + tenantDir + "/" + name, nil
}

func randomName(ext string) (string, error) {
	b := make([]byte, fileNameRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	return hex.EncodeToString(b) + ext, nil
}
