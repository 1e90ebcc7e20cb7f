package lifecycle

import (
	"fmt"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// ValidateDecision valida la decisión sobre un registro lleno: solo admin,
// solo approved/rejected y terminal una vez decidido. La misma decisión repetida es válida.
func ValidateDecision(e *entity.RecordEntry, decision entity.EntryStatus, actor Actor) error {
	if decision != entity.EntryApproved && decision != entity.EntryRejected {
		return fmt.Errorf("%w: decisión %q", domain.ErrValidation, decision)
	}
	if !actor.IsAdmin {
		return fmt.Errorf("%w: solo un administrador decide registros", domain.ErrPermissionDenied)
	}
	if e.Status != entity.EntryPending && e.Status != decision {
		return fmt.Errorf("%w: el registro ya fue %s", domain.ErrInvalidTransition, e.Status)
	}
	return nil
}

// ApplyDecision registra la decisión con su autor y fecha.
func ApplyDecision(e *entity.RecordEntry, decision entity.EntryStatus, actor Actor, now time.Time) {
	at := now
	e.Status = decision
	e.ApprovedBy = actor.ID
	e.ApprovedAt = &at
	e.UpdatedAt = now
}

// PromoteParent aplica la promoción del formato cuando su primer registro se decide.
// Solo actúa si el formato está en draft; devuelve true si lo modificó.
func PromoteParent(format *entity.Controlled, decision entity.EntryStatus, actor Actor, now time.Time) bool {
	if format.Status != entity.StatusDraft {
		return false
	}
	target := entity.StatusApproved
	if decision == entity.EntryRejected {
		target = entity.StatusRejected
	}
	Apply(format, target, actor, now)
	return true
}
