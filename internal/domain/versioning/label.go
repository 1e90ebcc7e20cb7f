package versioning

import (
	"fmt"
	"strings"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
)

// DefaultLabel etiqueta de la primera versión cuando el cliente no la indica.
const DefaultLabel = "1.0"

// NormalizeLabel recorta espacios y rechaza etiquetas vacías.
func NormalizeLabel(label string) (string, error) {
	l := strings.TrimSpace(label)
	if l == "" {
		return "", domain.ErrInvalidVersionLabel
	}
	return l, nil
}

// CheckUnique falla si la etiqueta ya existe (comparación sin mayúsculas).
func CheckUnique(label string, existing []string) error {
	for _, e := range existing {
		if strings.EqualFold(strings.TrimSpace(e), label) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateVersionLabel, label)
		}
	}
	return nil
}
