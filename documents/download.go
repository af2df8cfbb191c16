package documents

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-efact-client/blobs"
	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// DownloadBinary writes the payload behind handle to filename inside the download
// directory and returns the written path. filename must be a bare file name.
func (r *Retriever) DownloadBinary(handle blobs.Handle, filename string) (string, error) {
	if r.downloadDir == "" {
		return "", apperrors.Wrapf(apperrors.ErrDownloadDisabled, "[Retriever DownloadBinary]")
	}
	if err := validateFileName(filename); err != nil {
		return "", err
	}

	blob, err := r.registry.Open(handle)
	if err != nil {
		return "", fmt.Errorf("[Retriever DownloadBinary] %w", err)
	}

	if err := os.MkdirAll(r.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("[Retriever DownloadBinary] creating %s: %w", r.downloadDir, err)
	}
	path := filepath.Join(r.downloadDir, filename)
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return "", fmt.Errorf("[Retriever DownloadBinary] writing %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("bytes", len(blob.Data)).Msg("[Retriever DownloadBinary] saved")
	return path, nil
}

// DownloadText saves text as filename through a transient blob that is always revoked.
// An empty mimeType means the configured default.
func (r *Retriever) DownloadText(text, filename, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = r.defaultMimeType
	}
	h := r.registry.Create([]byte(text), mimeType)
	defer r.registry.Revoke(h)
	return r.DownloadBinary(h, filename)
}

func validateFileName(filename string) error {
	if filename == "" || filename == "." || filename == ".." || filepath.Base(filename) != filename {
		return apperrors.Wrapf(apperrors.ErrInvalidFileName, "[Retriever validateFileName] %q", filename)
	}
	return nil
}
