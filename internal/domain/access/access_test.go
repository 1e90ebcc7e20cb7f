package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/access"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

func fixtures() (p1, p2, p3, inactive *entity.Project) {
	p1 = &entity.Project{ID: "p1", CompanyID: "A", Active: true,
		Contacts: []entity.Contact{{Name: "Ana", Email: "Ana.Ruiz@empresa-a.co"}}}
	p2 = &entity.Project{ID: "p2", CompanyID: "A", Active: true,
		Contacts: []entity.Contact{{Name: "Luis", Email: "luis@empresa-a.co"}}}
	p3 = &entity.Project{ID: "p3", CompanyID: "B", Active: true,
		Contacts: []entity.Contact{{Name: "Ana", Email: "ana.ruiz@empresa-a.co"}}}
	inactive = &entity.Project{ID: "p4", CompanyID: "A", Active: false}
	return
}

func TestFilterProjects_AdminVeTodosLosActivos(t *testing.T) {
	p1, p2, p3, p4 := fixtures()
	admin := &entity.User{ID: "adm", Role: entity.RoleAdmin, Active: true}

	got := access.FilterProjects(admin, []*entity.Project{p1, p2, p3, p4}, "")
	assert.Equal(t, []string{"p1", "p2", "p3"}, access.ProjectIDs(got))

	scoped := access.FilterProjects(admin, []*entity.Project{p1, p2, p3, p4}, "B")
	assert.Equal(t, []string{"p3"}, access.ProjectIDs(scoped))
}

func TestFilterProjects_ContactoSoloVeSusProyectos(t *testing.T) {
	p1, p2, p3, _ := fixtures()
	u := &entity.User{ID: "u", Role: entity.RoleCompanyUser, CompanyID: "A",
		Email: "  ana.ruiz@EMPRESA-A.co ", Active: true}

	got := access.FilterProjects(u, []*entity.Project{p1, p2, p3}, "")
	assert.Equal(t, []string{"p1"}, access.ProjectIDs(got), "p3 es de otra empresa aunque figure como contacto")
}

func TestFilterProjects_AccesoGlobalDeEmpresa(t *testing.T) {
	p1, p2, p3, p4 := fixtures()
	u := &entity.User{ID: "u", Role: entity.RoleCompanyUser, CompanyID: "A",
		Email: "otro@empresa-a.co", Active: true, CanViewAllCompanyProjects: true}

	got := access.FilterProjects(u, []*entity.Project{p1, p2, p3, p4}, "")
	assert.Equal(t, []string{"p1", "p2"}, access.ProjectIDs(got))
}

func TestCanSeeProject_UsuarioInactivo(t *testing.T) {
	p1, _, _, _ := fixtures()
	admin := &entity.User{ID: "adm", Role: entity.RoleAdmin, Active: false}
	assert.False(t, access.CanSeeProject(admin, p1))
	assert.False(t, access.CanSeeProject(nil, p1))
}

func TestCanReachProject_AdminAlcanzaProyectoInactivo(t *testing.T) {
	_, _, _, inactive := fixtures()
	admin := &entity.User{ID: "adm", Role: entity.RoleAdmin, Active: true}
	all := &entity.User{ID: "u", Role: entity.RoleCompanyUser, CompanyID: "A", Active: true, CanViewAllCompanyProjects: true}

	assert.False(t, access.CanSeeProject(admin, inactive))
	assert.True(t, access.CanReachProject(admin, inactive))
	assert.False(t, access.CanReachProject(all, inactive))
	assert.False(t, access.CanReachProject(&entity.User{ID: "adm", Role: entity.RoleAdmin}, inactive))
}

func TestIsAssigned_PorIDOEmail(t *testing.T) {
	u := &entity.User{ID: "u1", Email: "Maria@Empresa.co"}
	byID := []*entity.RoleAssignment{{UserID: "u1", Email: "x@y.co"}}
	byEmail := []*entity.RoleAssignment{{Email: "maria@empresa.co"}}
	none := []*entity.RoleAssignment{{UserID: "u2", Email: "pedro@empresa.co"}}

	assert.True(t, access.IsAssigned(u, byID))
	assert.True(t, access.IsAssigned(u, byEmail))
	assert.False(t, access.IsAssigned(u, none))
}

func TestMasterListVisible(t *testing.T) {
	p1, _, _, _ := fixtures()
	restricted := &entity.User{ID: "u", Role: entity.RoleCompanyUser, CompanyID: "A",
		Email: "ana.ruiz@empresa-a.co", Active: true}
	blanket := &entity.User{ID: "b", Role: entity.RoleCompanyUser, CompanyID: "A",
		Email: "jefe@empresa-a.co", Active: true, CanViewAllCompanyProjects: true}
	roles := []*entity.RoleAssignment{{Email: "ANA.RUIZ@empresa-a.co", Role: entity.RoleReviewer}}

	assert.False(t, access.MasterListVisible(restricted, p1, nil), "contacto del proyecto no basta")
	assert.True(t, access.MasterListVisible(restricted, p1, roles))
	assert.True(t, access.MasterListVisible(blanket, p1, nil))
}
