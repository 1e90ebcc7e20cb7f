package lifecycle

import (
	"fmt"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// Actor quien ejecuta la transición.
type Actor struct {
	ID      string
	IsAdmin bool
}

var allowed = map[entity.Status][]entity.Status{
	entity.StatusDraft:         {entity.StatusPendingReview},
	entity.StatusPendingReview: {entity.StatusApproved, entity.StatusRejected},
}

// RequiresAdmin estados destino reservados a administradores.
func RequiresAdmin(target entity.Status) bool {
	return target == entity.StatusApproved || target == entity.StatusRejected
}

// EffectiveStatus aplica el vencimiento por tiempo: un aprobado con fecha de
// vencimiento anterior a hoy se reporta como expired.
func EffectiveStatus(c *entity.Controlled, now time.Time) entity.Status {
	if c.Status == entity.StatusApproved && c.ExpirationDate != nil &&
		startOfDay(*c.ExpirationDate).Before(startOfDay(now)) {
		return entity.StatusExpired
	}
	return c.Status
}

// ValidateTransition comprueba permiso (primero) y grafo.
// Repetir el estado actual es válido (idempotente).
func ValidateTransition(c *entity.Controlled, target entity.Status, actor Actor, now time.Time) error {
	if RequiresAdmin(target) && !actor.IsAdmin {
		return fmt.Errorf("%w: solo un administrador puede pasar a %s", domain.ErrPermissionDenied, target)
	}
	if target == entity.StatusExpired {
		return fmt.Errorf("%w: el vencimiento no es una transición explícita", domain.ErrInvalidTransition)
	}
	current := EffectiveStatus(c, now)
	if current == target {
		return nil
	}
	for _, next := range allowed[current] {
		if next == target {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, target)
}

// Apply muta la entidad después de una validación exitosa.
func Apply(c *entity.Controlled, target entity.Status, actor Actor, now time.Time) {
	c.Status = target
	c.UpdatedAt = now
	if target == entity.StatusApproved || target == entity.StatusRejected {
		c.ApprovedBy = actor.ID
		at := now
		c.ApprovedAt = &at
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
