package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/versioning"
)

func TestNormalizeLabel(t *testing.T) {
	l, err := versioning.NormalizeLabel("  2.0 ")
	require.NoError(t, err)
	assert.Equal(t, "2.0", l)

	_, err = versioning.NormalizeLabel("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidVersionLabel)
}

func TestCheckUnique_SinDistinguirMayusculas(t *testing.T) {
	assert.ErrorIs(t, versioning.CheckUnique("v2", []string{"V2"}), domain.ErrDuplicateVersionLabel)
	assert.NoError(t, versioning.CheckUnique("v3", []string{"v1", "v2"}))
}
