package roles

import (
	"net/mail"
	"strings"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

// Input fila de rol tal como llega del cliente.
type Input struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// Sanitize valida las etiquetas de rol y descarta las filas incompletas (sin rol,
// nombre, apellido o email, o con email no plausible). Devuelve las asignaciones
// aceptadas con su posición dentro de cada rol y cuántas filas se descartaron.
// Una etiqueta de rol no vacía y desconocida es un error, no una fila incompleta.
func Sanitize(kind entity.Kind, entityID string, rows []Input) ([]*entity.RoleAssignment, int, error) {
	out := make([]*entity.RoleAssignment, 0, len(rows))
	positions := make(map[entity.RoleTag]int)
	dropped := 0
	for _, r := range rows {
		if strings.TrimSpace(r.Role) == "" {
			dropped++
			continue
		}
		tag, err := entity.ParseRoleTag(r.Role)
		if err != nil {
			return nil, 0, err
		}
		first := strings.TrimSpace(r.FirstName)
		last := strings.TrimSpace(r.LastName)
		email := strings.TrimSpace(r.Email)
		if first == "" || last == "" || !PlausibleEmail(email) {
			dropped++
			continue
		}
		out = append(out, &entity.RoleAssignment{
			Kind:      kind,
			EntityID:  entityID,
			UserID:    strings.TrimSpace(r.UserID),
			FirstName: first,
			LastName:  last,
			Email:     email,
			Role:      tag,
			Position:  positions[tag],
		})
		positions[tag]++
	}
	return out, dropped, nil
}

// PlausibleEmail dirección simple (sin nombre visible) con dominio que contiene un punto.
func PlausibleEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
