package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/apptest"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

func sites(list []*entity.Project) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Site)
	}
	return out
}

func TestVisibleProjects_PorRolYContacto(t *testing.T) {
	env := apptest.NewEnv(t)
	ctx := context.Background()
	andina := env.Company(t, "Andina", "900")
	otra := env.Company(t, "Otra", "800")
	env.Project(t, andina.ID, "Norte", "Residente@Andina.co")
	env.Project(t, andina.ID, "Sur")
	env.Project(t, otra.ID, "Centro", "residente@andina.co")

	contact := apptest.CompanyUser("u1", andina.ID, "residente@andina.co", false)
	got, err := env.Access.VisibleProjects(ctx, contact, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Norte"}, sites(got), "el contacto de otra empresa no da visibilidad")

	all := apptest.CompanyUser("u2", andina.ID, "gerente@andina.co", true)
	got, err = env.Access.VisibleProjects(ctx, all, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Norte", "Sur"}, sites(got))

	got, err = env.Access.VisibleProjects(ctx, apptest.Admin(), otra.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Centro"}, sites(got))

	got, err = env.Access.VisibleProjects(ctx, apptest.Admin(), "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestVisibleProjects_InactivosOcultos(t *testing.T) {
	env := apptest.NewEnv(t)
	ctx := context.Background()
	c := env.Company(t, "Andina", "900")
	p := env.Project(t, c.ID, "Norte")
	p.Active = false
	require.NoError(t, env.Projects.Update(ctx, p))

	got, err := env.Access.VisibleProjects(ctx, apptest.Admin(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAuthorize_AdminAdministraProyectoInactivo(t *testing.T) {
	env := apptest.NewEnv(t)
	ctx := context.Background()
	admin := apptest.Admin()
	c := env.Company(t, "Andina", "900")
	p := env.Project(t, c.ID, "Norte", "residente@andina.co")
	cat := env.Category(t, "Política SST", entity.KindDocument, true, 12)
	doc := env.CreateControlled(t, admin, entity.KindDocument, p.ID, cat.ID, "Política")
	p.Active = false
	require.NoError(t, env.Projects.Update(ctx, p))

	_, err := env.ProjectUC.Get(ctx, admin, p.ID)
	require.NoError(t, err)
	_, err = env.ControlledUC.Get(ctx, admin, entity.KindDocument, doc.Entity.ID)
	require.NoError(t, err)

	all := apptest.CompanyUser("u2", c.ID, "gerente@andina.co", true)
	_, err = env.ControlledUC.Get(ctx, all, entity.KindDocument, doc.Entity.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied, "fuera del admin el proyecto inactivo sigue oculto")

	require.NoError(t, env.ControlledUC.Delete(ctx, admin, entity.KindDocument, doc.Entity.ID))
	_, err = env.ControlledUC.Get(ctx, admin, entity.KindDocument, doc.Entity.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthorizeControlled_NoEncontradoYDenegado(t *testing.T) {
	env := apptest.NewEnv(t)
	ctx := context.Background()
	c := env.Company(t, "Andina", "900")
	p := env.Project(t, c.ID, "Norte", "residente@andina.co")
	cat := env.Category(t, "Política", entity.KindDocument, true, 0)
	doc := env.CreateControlled(t, apptest.Admin(), entity.KindDocument, p.ID, cat.ID, "Política")

	_, _, err := env.Access.AuthorizeControlled(ctx, apptest.Admin(), entity.KindDocument, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = env.Access.AuthorizeControlled(ctx, apptest.Admin(), entity.KindRecord, doc.Entity.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un documento no es un formato")

	_, _, err = env.Access.AuthorizeControlled(ctx, apptest.CompanyUser("u1", c.ID, "otro@andina.co", false), entity.KindDocument, doc.Entity.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	got, gotProject, err := env.Access.AuthorizeControlled(ctx, apptest.CompanyUser("u1", c.ID, "residente@andina.co", false), entity.KindDocument, doc.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Entity.ID, got.ID)
	assert.Equal(t, p.ID, gotProject.ID)
}

func TestVisibleDocuments_SoloProyectosVisibles(t *testing.T) {
	env := apptest.NewEnv(t)
	ctx := context.Background()
	c := env.Company(t, "Andina", "900")
	norte := env.Project(t, c.ID, "Norte", "residente@andina.co")
	sur := env.Project(t, c.ID, "Sur")
	cat := env.Category(t, "Política", entity.KindDocument, true, 0)
	env.CreateControlled(t, apptest.Admin(), entity.KindDocument, norte.ID, cat.ID, "A")
	env.CreateControlled(t, apptest.Admin(), entity.KindDocument, sur.ID, cat.ID, "B")

	user := apptest.CompanyUser("u1", c.ID, "residente@andina.co", false)
	docs, err := env.Access.VisibleDocuments(ctx, user, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0].Name)

	_, err = env.Access.VisibleDocuments(ctx, user, sur.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
