package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrPermissionDenied      = errors.New("permiso denegado")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")
	ErrValidation            = errors.New("datos inválidos")
	ErrConsistencyViolation  = errors.New("no se pudo mantener la consistencia de la operación")
	ErrInvalidVersionLabel   = errors.New("la etiqueta de versión es obligatoria")
	ErrDuplicateVersionLabel = errors.New("la etiqueta de versión ya existe para este elemento")
	ErrUnauthorized          = errors.New("no autenticado")
	ErrDuplicate             = errors.New("recurso duplicado")
)
