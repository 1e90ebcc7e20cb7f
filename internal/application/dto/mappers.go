package dto

import "github.com/jhoicas/sgsst-docs-api/internal/domain/entity"

// FromCompany convierte la entidad a su respuesta.
func FromCompany(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromProject convierte un proyecto.
func FromProject(p *entity.Project) ProjectResponse {
	contacts := make([]ContactDTO, 0, len(p.Contacts))
	for _, c := range p.Contacts {
		contacts = append(contacts, ContactDTO{Name: c.Name, Email: c.Email})
	}
	return ProjectResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Site:        p.Site,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status,
		Active:      p.Active,
		Contacts:    contacts,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromCategory convierte una categoría.
func FromCategory(c *entity.DocumentCategory) CategoryResponse {
	return CategoryResponse{
		ID:                 c.ID,
		Name:               c.Name,
		NormativeReference: c.NormativeReference,
		Type:               string(c.Type),
		Required:           c.Required,
		RenewalMonths:      c.RenewalMonths,
		Active:             c.Active,
		CreatedAt:          c.CreatedAt,
	}
}

// FromUser convierte un perfil.
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:                        u.ID,
		CompanyID:                 u.CompanyID,
		Email:                     u.Email,
		Name:                      u.Name,
		Role:                      u.Role,
		Active:                    u.Active,
		CanViewAllCompanyProjects: u.CanViewAllCompanyProjects,
		CreatedAt:                 u.CreatedAt,
		UpdatedAt:                 u.UpdatedAt,
	}
}

// FromControlled convierte un documento o formato. status es el estado efectivo a mostrar.
func FromControlled(c *entity.Controlled, status entity.Status) ControlledResponse {
	return ControlledResponse{
		ID:             c.ID,
		Type:           string(c.Kind),
		ProjectID:      c.ProjectID,
		CategoryID:     c.CategoryID,
		Name:           c.Name,
		Code:           c.Code,
		Version:        c.Version,
		Status:         string(status),
		ExpirationDate: c.ExpirationDate,
		Notes:          c.Notes,
		CreatedBy:      c.CreatedBy,
		ApprovedBy:     c.ApprovedBy,
		ApprovedAt:     c.ApprovedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// FromVersion convierte una versión.
func FromVersion(v *entity.Version) VersionResponse {
	return VersionResponse{
		ID:          v.ID,
		ParentID:    v.ParentID,
		Label:       v.Label,
		FileName:    v.File.Name,
		FilePath:    v.File.Path,
		FileSize:    v.File.Size,
		ContentType: v.File.ContentType,
		UploadedBy:  v.UploadedBy,
		UploadedAt:  v.UploadedAt,
		ChangeNote:  v.ChangeNote,
		IsActive:    v.IsActive,
	}
}

// FromEntry convierte un registro lleno.
func FromEntry(e *entity.RecordEntry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		FormatID:        e.FormatID,
		Name:            e.Name,
		RealizationDate: e.RealizationDate,
		FileName:        e.File.Name,
		FileSize:        e.File.Size,
		UploadedBy:      e.UploadedBy,
		Status:          string(e.Status),
		ApprovedBy:      e.ApprovedBy,
		ApprovedAt:      e.ApprovedAt,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// FromRoles convierte las asignaciones de rol.
func FromRoles(list []*entity.RoleAssignment) []RoleAssignmentDTO {
	out := make([]RoleAssignmentDTO, 0, len(list))
	for _, r := range list {
		out = append(out, RoleAssignmentDTO{
			UserID:    r.UserID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Role:      string(r.Role),
			Position:  r.Position,
		})
	}
	return out
}
