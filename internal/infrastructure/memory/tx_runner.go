package memory

import (
	"context"

	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el lock del almacén. fn trabaja sobre
// una copia del estado que solo se publica si no hay error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn de forma atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.st.clone()
	v := view{store: r.store, tx: &work}
	repos := repository.TxRepos{
		Controlled: &ControlledRepo{v: v},
		Versions:   &VersionRepo{v: v},
		Entries:    &EntryRepo{v: v},
		Roles:      &RoleRepo{v: v},
	}
	if err := fn(repos); err != nil {
		return err
	}
	r.store.st = work
	return nil
}
