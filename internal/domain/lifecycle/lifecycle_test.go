package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
)

var (
	now   = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	admin = lifecycle.Actor{ID: "admin-1", IsAdmin: true}
	user  = lifecycle.Actor{ID: "user-1"}
)

func TestStageToStatus_MapeoSinTildes(t *testing.T) {
	cases := map[string]entity.Status{
		"Elaboración": entity.StatusDraft,
		"revision":    entity.StatusPendingReview,
		"APROBACIÓN":  entity.StatusPendingReview,
		" Vigente ":   entity.StatusApproved,
		"Obsoleto":    entity.StatusExpired,
	}
	for stage, want := range cases {
		got, err := lifecycle.StageToStatus(stage)
		require.NoError(t, err, stage)
		assert.Equal(t, want, got, stage)
	}
}

func TestStageToStatus_Desconocida(t *testing.T) {
	_, err := lifecycle.StageToStatus("Publicado")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateTransition_Grafo(t *testing.T) {
	doc := entity.NewDocument("d1", "p1", "c1", "Política SST", "PO-01", "u1", now)

	require.NoError(t, lifecycle.ValidateTransition(doc, entity.StatusPendingReview, user, now))
	assert.ErrorIs(t, lifecycle.ValidateTransition(doc, entity.StatusApproved, admin, now), domain.ErrInvalidTransition)

	doc.Status = entity.StatusPendingReview
	assert.NoError(t, lifecycle.ValidateTransition(doc, entity.StatusApproved, admin, now))
	assert.NoError(t, lifecycle.ValidateTransition(doc, entity.StatusRejected, admin, now))
	assert.ErrorIs(t, lifecycle.ValidateTransition(doc, entity.StatusDraft, admin, now), domain.ErrInvalidTransition)
}

func TestValidateTransition_SoloAdminAprueba(t *testing.T) {
	doc := entity.NewDocument("d1", "p1", "c1", "Matriz IPVR", "MT-01", "u1", now)
	doc.Status = entity.StatusPendingReview

	err := lifecycle.ValidateTransition(doc, entity.StatusApproved, user, now)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, entity.StatusPendingReview, doc.Status)
}

func TestValidateTransition_Idempotente(t *testing.T) {
	doc := entity.NewDocument("d1", "p1", "c1", "Reglamento", "RG-01", "u1", now)
	doc.Status = entity.StatusApproved
	assert.NoError(t, lifecycle.ValidateTransition(doc, entity.StatusApproved, admin, now))
}

func TestValidateTransition_VencidoNoSeAprueba(t *testing.T) {
	exp := now.AddDate(0, 0, -1)
	doc := entity.NewDocument("d1", "p1", "c1", "Plan de emergencias", "PE-01", "u1", now)
	doc.Status = entity.StatusApproved
	doc.ExpirationDate = &exp

	assert.Equal(t, entity.StatusExpired, lifecycle.EffectiveStatus(doc, now))
	assert.ErrorIs(t, lifecycle.ValidateTransition(doc, entity.StatusApproved, admin, now), domain.ErrInvalidTransition)
	assert.ErrorIs(t, lifecycle.ValidateTransition(doc, entity.StatusExpired, admin, now), domain.ErrInvalidTransition)
}

func TestEffectiveStatus_VenceHoySigueAprobado(t *testing.T) {
	exp := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	doc := entity.NewDocument("d1", "p1", "c1", "Plan", "PL-01", "u1", now)
	doc.Status = entity.StatusApproved
	doc.ExpirationDate = &exp
	assert.Equal(t, entity.StatusApproved, lifecycle.EffectiveStatus(doc, now))
}

func TestApply_RegistraAprobador(t *testing.T) {
	doc := entity.NewDocument("d1", "p1", "c1", "Política", "PO-01", "u1", now)
	doc.Status = entity.StatusPendingReview
	lifecycle.Apply(doc, entity.StatusRejected, admin, now)

	assert.Equal(t, entity.StatusRejected, doc.Status)
	assert.Equal(t, "admin-1", doc.ApprovedBy)
	require.NotNil(t, doc.ApprovedAt)
	assert.True(t, doc.ApprovedAt.Equal(now))
}

func TestValidateDecision(t *testing.T) {
	e := &entity.RecordEntry{ID: "e1", Status: entity.EntryPending}

	assert.ErrorIs(t, lifecycle.ValidateDecision(e, entity.EntryApproved, user), domain.ErrPermissionDenied)
	assert.ErrorIs(t, lifecycle.ValidateDecision(e, entity.EntryPending, admin), domain.ErrValidation)
	require.NoError(t, lifecycle.ValidateDecision(e, entity.EntryApproved, admin))

	lifecycle.ApplyDecision(e, entity.EntryApproved, admin, now)
	assert.NoError(t, lifecycle.ValidateDecision(e, entity.EntryApproved, admin))
	assert.ErrorIs(t, lifecycle.ValidateDecision(e, entity.EntryRejected, admin), domain.ErrInvalidTransition)
}

func TestPromoteParent_SoloDesdeBorrador(t *testing.T) {
	f := entity.NewRecordFormat("f1", "p1", "c1", "Inspección extintores", "RE-01", "u1", now)
	assert.True(t, lifecycle.PromoteParent(f, entity.EntryApproved, admin, now))
	assert.Equal(t, entity.StatusApproved, f.Status)
	assert.Equal(t, "admin-1", f.ApprovedBy)

	g := entity.NewRecordFormat("f2", "p1", "c1", "Entrega EPP", "RE-02", "u1", now)
	g.Status = entity.StatusPendingReview
	assert.False(t, lifecycle.PromoteParent(g, entity.EntryApproved, admin, now))
	assert.Equal(t, entity.StatusPendingReview, g.Status)
	assert.Empty(t, g.ApprovedBy)

	h := entity.NewRecordFormat("f3", "p1", "c1", "Asistencia", "RE-03", "u1", now)
	assert.True(t, lifecycle.PromoteParent(h, entity.EntryRejected, admin, now))
	assert.Equal(t, entity.StatusRejected, h.Status)
}
