// Package access concentra las reglas de visibilidad del portal. Todo listado o
// lectura que sirve a un company_user pasa por aquí; ninguna consulta filtra
// solo por empresa.
package access

import (
	"strings"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// FilterProjects devuelve los proyectos visibles para el usuario dentro de candidates.
// companyScope restringe la vista a una empresa (vacío = sin restricción adicional).
func FilterProjects(u *entity.User, candidates []*entity.Project, companyScope string) []*entity.Project {
	out := make([]*entity.Project, 0, len(candidates))
	for _, p := range candidates {
		if companyScope != "" && p.CompanyID != companyScope {
			continue
		}
		if CanSeeProject(u, p) {
			out = append(out, p)
		}
	}
	return out
}

// CanSeeProject regla de visibilidad de un proyecto.
func CanSeeProject(u *entity.User, p *entity.Project) bool {
	if u == nil || p == nil || !u.Active || !p.Active {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if u.Role != entity.RoleCompanyUser || u.CompanyID == "" || p.CompanyID != u.CompanyID {
		return false
	}
	if u.CanViewAllCompanyProjects {
		return true
	}
	return p.HasContact(u.Email)
}

// CanReachProject regla de acceso por id. Igual que CanSeeProject, salvo que un
// admin activo también alcanza proyectos inactivos para administrarlos.
func CanReachProject(u *entity.User, p *entity.Project) bool {
	if u != nil && p != nil && u.Active && u.IsAdmin() {
		return true
	}
	return CanSeeProject(u, p)
}

// ProjectIDs extrae los ids, en el mismo orden.
func ProjectIDs(projects []*entity.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}

// IsAssigned informa si el usuario figura entre las asignaciones de rol (por id o email).
func IsAssigned(u *entity.User, roles []*entity.RoleAssignment) bool {
	if u == nil {
		return false
	}
	email := strings.TrimSpace(u.Email)
	for _, r := range roles {
		if r.UserID != "" && r.UserID == u.ID {
			return true
		}
		if email != "" && strings.EqualFold(strings.TrimSpace(r.Email), email) {
			return true
		}
	}
	return false
}

// MasterListVisible regla del listado maestro: la visibilidad del proyecto es
// necesaria; sin acceso global además hay que figurar en los roles del elemento.
func MasterListVisible(u *entity.User, p *entity.Project, roles []*entity.RoleAssignment) bool {
	if !CanSeeProject(u, p) {
		return false
	}
	if u.HasBlanketAccess() {
		return true
	}
	return IsAssigned(u, roles)
}
