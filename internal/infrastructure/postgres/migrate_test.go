package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_OrdenadasYEmbebidas(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.up.sql", names[0])

	body, err := migrationsFS.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "document_versions_active_key")
	assert.Contains(t, string(body), "record_format_versions_label_key")
}

func TestTablesFor_PorTipo(t *testing.T) {
	doc := tablesFor("document")
	assert.Equal(t, "documents", doc.entity)
	assert.Equal(t, "document_versions", doc.versions)
	assert.Equal(t, "document_roles", doc.roles)

	rec := tablesFor("record")
	assert.Equal(t, "record_formats", rec.entity)
	assert.Equal(t, "record_format_versions", rec.versions)
	assert.Equal(t, "record_format_roles", rec.roles)
}
