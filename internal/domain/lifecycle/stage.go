package lifecycle

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// Etapas del ciclo de vida tal como las declara quien sube una versión.
const (
	StageElaboracion = "Elaboración"
	StageRevision    = "Revisión"
	StageAprobacion  = "Aprobación"
	StageVigente     = "Vigente"
	StageObsoleto    = "Obsoleto"
)

var stageStatus = map[string]entity.Status{
	"elaboracion": entity.StatusDraft,
	"revision":    entity.StatusPendingReview,
	"aprobacion":  entity.StatusPendingReview,
	"vigente":     entity.StatusApproved,
	"obsoleto":    entity.StatusExpired,
}

// StageToStatus traduce una etapa a estado. Ignora tildes y mayúsculas
// ("revision", "REVISIÓN" y "Revisión" son la misma etapa).
func StageToStatus(stage string) (entity.Status, error) {
	key, err := foldStage(stage)
	if err != nil {
		return "", fmt.Errorf("%w: etapa %q", domain.ErrValidation, stage)
	}
	st, ok := stageStatus[key]
	if !ok {
		return "", fmt.Errorf("%w: etapa %q desconocida", domain.ErrValidation, stage)
	}
	return st, nil
}

func foldStage(s string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return strings.ToLower(out), nil
}
