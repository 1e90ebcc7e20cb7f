package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
)

// Kind distingue las dos variantes de elemento controlado y el tipo de categoría.
type Kind string

const (
	KindDocument Kind = "document" // documento SST
	KindRecord   Kind = "record"   // formato de registro (registro base)
)

// ParseKind valida el discriminador; no acepta valores desconocidos.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(s)); k {
	case KindDocument, KindRecord:
		return k, nil
	}
	return "", fmt.Errorf("%w: tipo %q desconocido", domain.ErrValidation, s)
}

// Status estado de un documento o formato de registro.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusExpired       Status = "expired"
)

// ParseStatus valida un estado recibido en la frontera.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusDraft, StatusPendingReview, StatusApproved, StatusRejected, StatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("%w: estado %q desconocido", domain.ErrValidation, s)
}

// EntryStatus estado de un registro lleno.
type EntryStatus string

const (
	EntryPending  EntryStatus = "pending"
	EntryApproved EntryStatus = "approved"
	EntryRejected EntryStatus = "rejected"
)

// ParseEntryStatus valida un estado de registro lleno.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch st := EntryStatus(strings.TrimSpace(s)); st {
	case EntryPending, EntryApproved, EntryRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: estado de registro %q desconocido", domain.ErrValidation, s)
}

// RoleTag rol de una persona sobre un documento o formato.
type RoleTag string

const (
	RoleElaborator RoleTag = "elaborator"
	RoleReviewer   RoleTag = "reviewer"
	RoleApprover   RoleTag = "approver"
)

// ParseRoleTag valida la etiqueta de rol.
func ParseRoleTag(s string) (RoleTag, error) {
	switch r := RoleTag(strings.TrimSpace(s)); r {
	case RoleElaborator, RoleReviewer, RoleApprover:
		return r, nil
	}
	return "", fmt.Errorf("%w: rol %q desconocido", domain.ErrValidation, s)
}
