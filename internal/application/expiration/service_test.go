package expiration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/apptest"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func create(t *testing.T, env *apptest.Env, kind entity.Kind, projectID, catID, name string, exp *time.Time) {
	t.Helper()
	_, err := env.ControlledUC.Create(context.Background(), apptest.Admin(), kind, dto.CreateControlledRequest{
		ProjectID: projectID, CategoryID: catID, Name: name, Code: name, ExpirationDate: exp,
	}, apptest.PDF(name+".pdf"))
	require.NoError(t, err)
}

func TestExpiring_VentanaInclusivaYOrden(t *testing.T) {
	env := apptest.NewEnv(t)
	company := env.Company(t, "Andina", "900")
	visible := env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	hidden := env.Project(t, company.ID, "Obra Sur")
	docCat := env.Category(t, "Política", entity.KindDocument, true, 0)
	recCat := env.Category(t, "Inspecciones", entity.KindRecord, true, 0)

	create(t, env, entity.KindDocument, visible.ID, docCat.ID, "Plan de emergencias", date(2026, 4, 25))
	create(t, env, entity.KindRecord, visible.ID, recCat.ID, "Inspección extintores", date(2026, 4, 20))
	create(t, env, entity.KindDocument, visible.ID, docCat.ID, "Matriz de riesgos", date(2026, 5, 15))
	create(t, env, entity.KindDocument, visible.ID, docCat.ID, "Vence en 40 días", date(2026, 5, 25))
	create(t, env, entity.KindDocument, visible.ID, docCat.ID, "Ya vencido", date(2026, 4, 14))
	create(t, env, entity.KindDocument, visible.ID, docCat.ID, "Sin fecha", nil)
	create(t, env, entity.KindDocument, hidden.ID, docCat.ID, "De otra obra", date(2026, 4, 18))

	user := apptest.CompanyUser("u1", company.ID, "residente@andina.co", false)
	items, err := env.Expiration.Expiring(context.Background(), user, 30)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Inspección extintores", items[0].Name)
	assert.Equal(t, entity.KindRecord, items[0].Type)
	assert.Equal(t, 5, items[0].DaysRemaining)
	assert.Equal(t, "Plan de emergencias", items[1].Name)
	assert.Equal(t, 10, items[1].DaysRemaining)
	assert.Equal(t, "Matriz de riesgos", items[2].Name, "el día 30 entra en la ventana")
	assert.Equal(t, "Obra Norte", items[2].ProjectName)

	admin, err := env.Expiration.Expiring(context.Background(), apptest.Admin(), 30)
	require.NoError(t, err)
	assert.Len(t, admin, 4)
}

func TestExpiring_DiasNegativosOSinProyectos(t *testing.T) {
	env := apptest.NewEnv(t)
	_, err := env.Expiration.Expiring(context.Background(), apptest.Admin(), -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	items, err := env.Expiration.Expiring(context.Background(), apptest.CompanyUser("u1", "c1", "a@b.co", true), 30)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
