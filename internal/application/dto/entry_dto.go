package dto

import "time"

// CreateEntryRequest metadatos de un registro lleno (multipart, el archivo va aparte).
type CreateEntryRequest struct {
	Name            string
	RealizationDate time.Time
	Notes           string
}

// DecisionRequest aprobación o rechazo de un registro lleno.
type DecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// EntryResponse salida de un registro lleno.
type EntryResponse struct {
	ID              string     `json:"id"`
	FormatID        string     `json:"format_id"`
	Name            string     `json:"name"`
	RealizationDate time.Time  `json:"realization_date"`
	FileName        string     `json:"file_name"`
	FileSize        int64      `json:"file_size"`
	UploadedBy      string     `json:"uploaded_by"`
	Status          string     `json:"status"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DecisionResponse registro decidido y, si cambió, su formato.
type DecisionResponse struct {
	Entry          EntryResponse       `json:"entry"`
	Format         *ControlledResponse `json:"format,omitempty"`
	FormatPromoted bool                `json:"format_promoted"`
}
