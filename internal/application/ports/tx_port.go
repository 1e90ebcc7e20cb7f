package ports

import (
	"context"

	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a ella.
// Si fn devuelve error no queda ninguna escritura aplicada.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.TxRepos) error) error
}
