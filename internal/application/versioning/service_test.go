package versioning_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/apptest"
	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/application/versioning"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

type fixture struct {
	env     *apptest.Env
	project *entity.Project
	docID   string
}

func setup(t *testing.T) fixture {
	env := apptest.NewEnv(t)
	company := env.Company(t, "Constructora Andina", "900123456")
	project := env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	cat := env.Category(t, "Política SST", entity.KindDocument, true, 12)
	created := env.CreateControlled(t, apptest.Admin(), entity.KindDocument, project.ID, cat.ID, "Política")
	return fixture{env: env, project: project, docID: created.Entity.ID}
}

func activeCount(t *testing.T, env *apptest.Env, kind entity.Kind, id string) int {
	n, err := env.Versions.CountActive(context.Background(), kind, id)
	require.NoError(t, err)
	return n
}

func TestAddVersion_SiempreUnaActiva(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := apptest.Admin()

	v2, doc, err := f.env.Versioning.AddVersion(ctx, admin, entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "2.0", File: apptest.PDF("politica-v2.pdf"),
	})
	require.NoError(t, err)
	assert.True(t, v2.IsActive)
	assert.Equal(t, "2.0", doc.Version)
	assert.Equal(t, 1, activeCount(t, f.env, entity.KindDocument, f.docID))

	list, err := f.env.Versioning.ListVersions(ctx, admin, entity.KindDocument, f.docID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	var v1 *entity.Version
	for _, v := range list {
		if v.Label == "1.0" {
			v1 = v
		}
	}
	require.NotNil(t, v1)

	// rollback a la 1.0: la activa no es la última subida
	_, doc, err = f.env.Versioning.ActivateVersion(ctx, admin, entity.KindDocument, f.docID, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)
	active, err := f.env.Versioning.ActiveVersion(ctx, admin, entity.KindDocument, f.docID)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, active.ID)

	_, _, err = f.env.Versioning.AddVersion(ctx, admin, entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "3.0", File: apptest.PDF("politica-v3.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, activeCount(t, f.env, entity.KindDocument, f.docID))
}

func TestAddVersion_EtiquetaDuplicadaOVacia(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	before := f.env.Storage.Len()

	_, _, err := f.env.Versioning.AddVersion(ctx, apptest.Admin(), entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "1.0", File: apptest.PDF("otra.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateVersionLabel)

	_, _, err = f.env.Versioning.AddVersion(ctx, apptest.Admin(), entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "  ", File: apptest.PDF("otra.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVersionLabel)
	assert.Equal(t, before, f.env.Storage.Len(), "no se sube nada si la etiqueta es inválida")
}

func TestAddVersion_ArchivoNoPermitido(t *testing.T) {
	f := setup(t)
	_, _, err := f.env.Versioning.AddVersion(context.Background(), apptest.Admin(), entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "2.0", File: files.Upload{Name: "script.exe", Data: []byte("MZ")},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddVersion_VigenteSoloAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := apptest.CompanyUser("u1", f.project.CompanyID, "residente@andina.co", false)

	_, _, err := f.env.Versioning.AddVersion(ctx, user, entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "2.0", Stage: "Vigente", File: apptest.PDF("v2.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, doc, err := f.env.Versioning.AddVersion(ctx, user, entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "2.0", Stage: "Revisión", File: apptest.PDF("v2.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, doc.Status)

	_, doc, err = f.env.Versioning.AddVersion(ctx, apptest.Admin(), entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "3.0", Stage: "vigente", File: apptest.PDF("v3.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, doc.Status)
	assert.Equal(t, "admin-1", doc.ApprovedBy)
}

func TestAddVersion_SinVisibilidad(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	outsider := apptest.CompanyUser("u2", f.project.CompanyID, "otro@andina.co", false)

	_, _, err := f.env.Versioning.AddVersion(ctx, outsider, entity.KindDocument, f.docID, versioning.AddVersionInput{
		Label: "2.0", File: apptest.PDF("v2.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, _, err = f.env.Versioning.AddVersion(ctx, apptest.Admin(), entity.KindDocument, "no-existe", versioning.AddVersionInput{
		Label: "2.0", File: apptest.PDF("v2.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivateVersion_DeOtroElemento(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.env.Category(t, "Reglamento", entity.KindDocument, false, 0)
	other := f.env.CreateControlled(t, apptest.Admin(), entity.KindDocument, f.project.ID, cat.ID, "Reglamento")

	_, _, err := f.env.Versioning.ActivateVersion(ctx, apptest.Admin(), entity.KindDocument, f.docID, other.Version.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, activeCount(t, f.env, entity.KindDocument, f.docID))
}

// failingTx confirma el trabajo de fn y luego simula una falla de commit.
type failingTx struct {
	inner ports.TxRunner
	fail  bool
}

var errCommit = errors.New("commit fallido")

func (f *failingTx) Run(ctx context.Context, fn func(repository.TxRepos) error) error {
	if !f.fail {
		return f.inner.Run(ctx, fn)
	}
	return f.inner.Run(ctx, func(r repository.TxRepos) error {
		if err := fn(r); err != nil {
			return err
		}
		return errCommit
	})
}

func TestAddVersion_FallaTransaccionBorraArchivo(t *testing.T) {
	ftx := &failingTx{}
	env := apptest.NewEnvWithTx(t, func(inner ports.TxRunner) ports.TxRunner {
		ftx.inner = inner
		return ftx
	})
	company := env.Company(t, "Andina", "900")
	project := env.Project(t, company.ID, "Obra")
	cat := env.Category(t, "Matriz", entity.KindRecord, false, 0)
	created := env.CreateControlled(t, apptest.Admin(), entity.KindRecord, project.ID, cat.ID, "Inspección")
	before := env.Storage.Len()

	ftx.fail = true
	_, _, err := env.Versioning.AddVersion(context.Background(), apptest.Admin(), entity.KindRecord, created.Entity.ID, versioning.AddVersionInput{
		Label: "2.0", File: apptest.PDF("v2.pdf"),
	})
	assert.ErrorIs(t, err, errCommit)
	assert.Equal(t, before, env.Storage.Len(), "el archivo subido se elimina")

	ftx.fail = false
	active, err := env.Versioning.ActiveVersion(context.Background(), apptest.Admin(), entity.KindRecord, created.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.0", active.Label)
}

func TestDownloadURL_VersionActiva(t *testing.T) {
	f := setup(t)
	url, v, err := f.env.Versioning.DownloadURL(context.Background(), apptest.Admin(), entity.KindDocument, f.docID, "")
	require.NoError(t, err)
	assert.Equal(t, "1.0", v.Label)
	assert.Contains(t, url, "memory://documents/")
}

func TestAddVersion_ConcurrenteDejaUnaSolaActiva(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := apptest.Admin()
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			label := fmt.Sprintf("%d.0", i+2)
			_, _, errs[i] = f.env.Versioning.AddVersion(ctx, admin, entity.KindDocument, f.docID, versioning.AddVersionInput{
				Label: label, File: apptest.PDF("politica-" + label + ".pdf"),
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	list, err := f.env.Versioning.ListVersions(ctx, admin, entity.KindDocument, f.docID)
	require.NoError(t, err)
	assert.Len(t, list, n+1)
	assert.Equal(t, 1, activeCount(t, f.env, entity.KindDocument, f.docID))

	active, err := f.env.Versioning.ActiveVersion(ctx, admin, entity.KindDocument, f.docID)
	require.NoError(t, err)
	doc, err := f.env.Controlled.GetByID(ctx, entity.KindDocument, f.docID)
	require.NoError(t, err)
	assert.Equal(t, active.Label, doc.Version, "la etiqueta del elemento sigue a la versión activa")
}

func TestAddVersion_ConcurrenteMismaEtiquetaSoloUnaGana(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := apptest.Admin()
	const n = 6

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.env.Versioning.AddVersion(ctx, admin, entity.KindDocument, f.docID, versioning.AddVersionInput{
				Label: "2.0", File: apptest.PDF(fmt.Sprintf("politica-%d.pdf", i)),
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateVersionLabel)
	}
	assert.Equal(t, 1, ok)

	list, err := f.env.Versioning.ListVersions(ctx, admin, entity.KindDocument, f.docID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1, activeCount(t, f.env, entity.KindDocument, f.docID))
}
