package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"scangate/internal/logger"
	"scangate/internal/models"
)

// CredentialSQLRepository reads the credential store from a sqlite
// database. Rows come back in insertion order so that sequence-scan
// matching keeps the same first-match semantics as the file store.
type CredentialSQLRepository struct {
	db *sqlx.DB
}

// NewCredentialSQLRepository creates a repository over db.
func NewCredentialSQLRepository(db *sqlx.DB) *CredentialSQLRepository {
	return &CredentialSQLRepository{db: db}
}

// Init creates the credentials table when it does not exist yet.
func (r *CredentialSQLRepository) Init(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			password TEXT NOT NULL
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("create credentials table: %w", err)
	}
	return nil
}

// List returns every credential record in insertion order. An empty
// table is an empty sequence, not an error.
func (r *CredentialSQLRepository) List(ctx context.Context) ([]models.Credential, error) {
	const query = `
		SELECT username, password
		FROM credentials
		ORDER BY id
	`

	var records []models.Credential
	err := r.db.SelectContext(ctx, &records, query)

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"rows", len(records),
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("read credential store: %w", err)
	}
	if records == nil {
		records = []models.Credential{}
	}
	return records, nil
}
