package dto

import "time"

// ControlledResponse salida de un documento o formato de registro.
type ControlledResponse struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	ProjectID      string     `json:"project_id"`
	CategoryID     string     `json:"category_id"`
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Version        string     `json:"version"`
	Status         string     `json:"status"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Notes          string     `json:"notes"`
	CreatedBy      string     `json:"created_by"`
	ApprovedBy     string     `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateControlledRequest metadatos que acompañan al archivo de la primera versión (multipart).
type CreateControlledRequest struct {
	ProjectID      string
	CategoryID     string
	Name           string
	Code           string
	Label          string
	Stage          string
	ExpirationDate *time.Time
	Notes          string
	ChangeNote     string
}

// TransitionRequest cambio de estado explícito.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=draft pending_review approved rejected"`
}

// VersionResponse salida de una versión.
type VersionResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id"`
	Label       string    `json:"label"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ChangeNote  string    `json:"change_note"`
	IsActive    bool      `json:"is_active"`
}

// VersionMutationResponse versión creada/activada junto con el elemento actualizado.
type VersionMutationResponse struct {
	Version VersionResponse    `json:"version"`
	Entity  ControlledResponse `json:"entity"`
}

// DownloadResponse URL firmada de descarga.
type DownloadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// RoleAssignmentDTO fila de rol de entrada y salida.
type RoleAssignmentDTO struct {
	UserID    string `json:"user_id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Position  int    `json:"position"`
}

// SetRolesRequest reemplaza todos los roles del elemento.
type SetRolesRequest struct {
	Roles []RoleAssignmentDTO `json:"roles"`
}

// UpdateControlledRequest metadatos editables de un documento o formato.
type UpdateControlledRequest struct {
	Name           *string `json:"name"`
	Code           *string `json:"code"`
	Notes          *string `json:"notes"`
	CategoryID     *string `json:"category_id"`
	ExpirationDate *string `json:"expiration_date"`
}
