package roles_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/apptest"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/roles"
)

func setup(t *testing.T) (*apptest.Env, *entity.Project, string) {
	env := apptest.NewEnv(t)
	company := env.Company(t, "Andina", "900123456")
	project := env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	cat := env.Category(t, "Procedimientos", entity.KindDocument, false, 0)
	created := env.CreateControlled(t, apptest.Admin(), entity.KindDocument, project.ID, cat.ID, "Procedimiento de alturas")
	return env, project, created.Entity.ID
}

func TestSetRoles_ReemplazaConjuntoCompleto(t *testing.T) {
	env, _, docID := setup(t)
	ctx := context.Background()

	_, err := env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, []rules.Input{
		{FirstName: "Ana", LastName: "Gómez", Email: "ana@andina.co", Role: "elaborator"},
		{FirstName: "Luis", LastName: "Pérez", Email: "luis@andina.co", Role: "approver"},
	})
	require.NoError(t, err)

	got, err := env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, []rules.Input{
		{FirstName: "Marta", LastName: "Ríos", Email: "marta@andina.co", Role: "reviewer"},
		{FirstName: "Sin", LastName: "", Email: "sin@andina.co", Role: "reviewer"},
		{FirstName: "Carlos", LastName: "Vélez", Email: "no-es-email", Role: "approver"},
		{FirstName: "Juan", LastName: "Mora", Email: "juan@andina.co", Role: "reviewer"},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2, "las filas incompletas se descartan")

	list, err := env.RoleSvc.ListRoles(ctx, apptest.Admin(), entity.KindDocument, docID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "marta@andina.co", list[0].Email)
	assert.Equal(t, 0, list[0].Position)
	assert.Equal(t, "juan@andina.co", list[1].Email)
	assert.Equal(t, 1, list[1].Position)
	for _, ra := range list {
		assert.Equal(t, entity.RoleReviewer, ra.Role)
	}
}

func TestSetRoles_RolDesconocidoNoModifica(t *testing.T) {
	env, _, docID := setup(t)
	ctx := context.Background()
	_, err := env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, []rules.Input{
		{FirstName: "Ana", LastName: "Gómez", Email: "ana@andina.co", Role: "elaborator"},
	})
	require.NoError(t, err)

	_, err = env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, []rules.Input{
		{FirstName: "Luis", LastName: "Pérez", Email: "luis@andina.co", Role: "auditor"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := env.RoleSvc.ListRoles(ctx, apptest.Admin(), entity.KindDocument, docID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ana@andina.co", list[0].Email)
}

func TestSetRoles_FilaEnBlancoSeDescarta(t *testing.T) {
	env, _, docID := setup(t)
	ctx := context.Background()

	got, err := env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, []rules.Input{
		{FirstName: "Ana", LastName: "Gómez", Email: "ana@andina.co", Role: "elaborator"},
		{},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	list, err := env.RoleSvc.ListRoles(ctx, apptest.Admin(), entity.KindDocument, docID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.RoleElaborator, list[0].Role)
}

func TestSetRoles_ListaVaciaBorraTodo(t *testing.T) {
	env, _, docID := setup(t)
	ctx := context.Background()
	_, err := env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, []rules.Input{
		{FirstName: "Ana", LastName: "Gómez", Email: "ana@andina.co", Role: "elaborator"},
	})
	require.NoError(t, err)

	_, err = env.RoleSvc.SetRoles(ctx, apptest.Admin(), entity.KindDocument, docID, nil)
	require.NoError(t, err)
	list, err := env.RoleSvc.ListRoles(ctx, apptest.Admin(), entity.KindDocument, docID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSetRoles_UsuarioSinVisibilidad(t *testing.T) {
	env, project, docID := setup(t)
	outsider := apptest.CompanyUser("u9", project.CompanyID, "otro@andina.co", false)

	_, err := env.RoleSvc.SetRoles(context.Background(), outsider, entity.KindDocument, docID, []rules.Input{
		{FirstName: "Ana", LastName: "Gómez", Email: "ana@andina.co", Role: "elaborator"},
	})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
