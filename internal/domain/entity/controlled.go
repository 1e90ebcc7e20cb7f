package entity

import "time"

// Controlled es la forma común de Document y RecordFormat: un elemento versionado
// con ciclo de aprobación que pertenece a un proyecto. Kind decide la variante
// (y la tabla donde vive).
type Controlled struct {
	ID             string
	Kind           Kind
	ProjectID      string
	CategoryID     string
	Name           string
	Code           string
	Version        string // etiqueta de la versión activa (desnormalizada)
	Status         Status
	ExpirationDate *time.Time
	Notes          string
	CreatedBy      string
	ApprovedBy     string // aprobó o rechazó, según Status
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDocument construye un documento SST en estado inicial.
func NewDocument(id, projectID, categoryID, name, code, createdBy string, now time.Time) *Controlled {
	return newControlled(KindDocument, id, projectID, categoryID, name, code, createdBy, now)
}

// NewRecordFormat construye un formato de registro (plantilla) en estado inicial.
func NewRecordFormat(id, projectID, categoryID, name, code, createdBy string, now time.Time) *Controlled {
	return newControlled(KindRecord, id, projectID, categoryID, name, code, createdBy, now)
}

func newControlled(kind Kind, id, projectID, categoryID, name, code, createdBy string, now time.Time) *Controlled {
	return &Controlled{
		ID:         id,
		Kind:       kind,
		ProjectID:  projectID,
		CategoryID: categoryID,
		Name:       name,
		Code:       code,
		Status:     StatusDraft,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FileDescriptor archivo subido al almacenamiento de objetos.
type FileDescriptor struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
}

// Version una versión de archivo de un documento o formato. Solo una está activa por elemento.
type Version struct {
	ID         string
	Kind       Kind
	ParentID   string
	Label      string
	File       FileDescriptor
	UploadedBy string
	UploadedAt time.Time
	ChangeNote string
	IsActive   bool
}

// RecordEntry registro lleno contra un formato (muchos a uno).
type RecordEntry struct {
	ID              string
	FormatID        string
	Name            string
	RealizationDate time.Time
	File            FileDescriptor
	UploadedBy      string
	Status          EntryStatus
	ApprovedBy      string
	ApprovedAt      *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RoleAssignment persona con un rol (elabora, revisa, aprueba) sobre un elemento.
type RoleAssignment struct {
	ID        string
	Kind      Kind
	EntityID  string
	UserID    string // opcional
	FirstName string
	LastName  string
	Email     string
	Role      RoleTag
	Position  int
}
