package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"scangate/internal/logger"
	"scangate/internal/models"
)

// ErrNoCredentialData reports that the credential store itself is
// missing — an administrative condition, distinct from a read or
// parse failure.
var ErrNoCredentialData = errors.New("no credential data")

// credentialFileName is the fixed store name resolved relative to the
// running process's base directory.
const credentialFileName = "users.json"

// DefaultCredentialPath resolves users.json next to the executable,
// falling back to the working directory when the executable path is
// unavailable.
func DefaultCredentialPath() string {
	exe, err := os.Executable()
	if err != nil {
		return credentialFileName
	}
	return filepath.Join(filepath.Dir(exe), credentialFileName)
}

// CredentialFileRepository reads the credential store from a JSON
// file. Every List call re-reads the file, so credential updates take
// effect without restarting the process.
type CredentialFileRepository struct {
	path string
}

// NewCredentialFileRepository creates a repository over the file at path.
func NewCredentialFileRepository(path string) *CredentialFileRepository {
	return &CredentialFileRepository{path: path}
}

// List returns the store's records in file order. A missing file is
// ErrNoCredentialData; an existing but empty file is an empty
// sequence; malformed content is a parse error. Unknown JSON fields
// are ignored and missing fields deserialize to empty strings.
func (r *CredentialFileRepository) List(ctx context.Context) ([]models.Credential, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Errorw("credential store missing", "path", r.path)
		return nil, ErrNoCredentialData
	}
	if err != nil {
		logger.Log.Errorw("credential store read failed", "path", r.path, "error", err)
		return nil, fmt.Errorf("read credential store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		logger.Log.Infow("credential store empty", "path", r.path)
		return []models.Credential{}, nil
	}

	var records []models.Credential
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Log.Errorw("credential store parse failed", "path", r.path, "error", err)
		return nil, fmt.Errorf("parse credential store: %w", err)
	}

	logger.Log.Infow("credential store loaded", "path", r.path, "records", len(records))
	return records, nil
}
