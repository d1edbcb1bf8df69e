package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"scangate/internal/models"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	err := os.WriteFile(path, []byte(content), 0o600)
	assert.NoError(t, err)
	return path
}

func TestCredentialFileRepository_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		want    []models.Credential
		wantErr string
	}{
		{
			name:    "single record",
			content: `[{"Username":"Admin","Password":"secret"}]`,
			want:    []models.Credential{{Username: "Admin", Password: "secret"}},
		},
		{
			name: "order preserved with duplicates",
			content: `[
				{"Username":"Admin","Password":"first"},
				{"Username":"admin","Password":"second"}
			]`,
			want: []models.Credential{
				{Username: "Admin", Password: "first"},
				{Username: "admin", Password: "second"},
			},
		},
		{
			name:    "unknown fields ignored",
			content: `[{"Username":"Admin","Password":"secret","Role":"chief","Shift":3}]`,
			want:    []models.Credential{{Username: "Admin", Password: "secret"}},
		},
		{
			name:    "missing fields deserialize to empty strings",
			content: `[{"Username":"Admin"},{}]`,
			want:    []models.Credential{{Username: "Admin"}, {}},
		},
		{
			name:    "empty file yields empty sequence",
			content: "",
			want:    []models.Credential{},
		},
		{
			name:    "whitespace-only file yields empty sequence",
			content: "  \n\t ",
			want:    []models.Credential{},
		},
		{
			name:    "empty array",
			content: `[]`,
			want:    []models.Credential{},
		},
		{
			name:    "malformed content is a parse error",
			content: `[{"Username":`,
			wantErr: "parse credential store",
		},
		{
			name:    "non-array content is a parse error",
			content: `{"Username":"Admin"}`,
			wantErr: "parse credential store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewCredentialFileRepository(writeStore(t, tt.content))

			records, err := repo.List(ctx)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, records)
		})
	}
}

func TestCredentialFileRepository_MissingFile(t *testing.T) {
	repo := NewCredentialFileRepository(filepath.Join(t.TempDir(), "users.json"))

	records, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentialData)
	assert.Nil(t, records)
}

func TestCredentialFileRepository_RereadsPerCall(t *testing.T) {
	ctx := context.Background()
	path := writeStore(t, `[{"Username":"Admin","Password":"old"}]`)
	repo := NewCredentialFileRepository(path)

	records, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "old", records[0].Password)

	// Credential updates take effect without restarting the process.
	err = os.WriteFile(path, []byte(`[{"Username":"Admin","Password":"new"}]`), 0o600)
	assert.NoError(t, err)

	records, err = repo.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "new", records[0].Password)
}

func TestDefaultCredentialPath(t *testing.T) {
	path := DefaultCredentialPath()
	assert.Equal(t, "users.json", filepath.Base(path))
}
