package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/application/access"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	rules "github.com/jhoicas/sgsst-docs-api/internal/domain/lifecycle"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// Service máquina de estados de documentos, formatos y registros llenos.
type Service struct {
	access *access.Service
	tx     ports.TxRunner
	log    *logger.Logger
	now    func() time.Time
}

// NewService construye el servicio.
func NewService(acc *access.Service, tx ports.TxRunner, log *logger.Logger) *Service {
	return &Service{access: acc, tx: tx, log: log.Component("lifecycle"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TransitionControlled cambia el estado de un documento o formato y devuelve la entidad modificada.
func (s *Service) TransitionControlled(ctx context.Context, actor *entity.User, kind entity.Kind, id, target string) (*entity.Controlled, error) {
	status, err := entity.ParseStatus(target)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.AuthorizeControlled(ctx, actor, kind, id); err != nil {
		return nil, err
	}
	who := actorOf(actor)
	var updated *entity.Controlled
	err = s.tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := r.Controlled.GetForUpdate(ctx, kind, id)
		if err != nil {
			return fmt.Errorf("bloquear %s: %w", kind, err)
		}
		if c == nil {
			return domain.ErrNotFound
		}
		now := s.now()
		if err := rules.ValidateTransition(c, status, who, now); err != nil {
			return err
		}
		rules.Apply(c, status, who, now)
		if err := r.Controlled.Update(ctx, c); err != nil {
			return fmt.Errorf("actualizar %s: %w", kind, err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("entity_id", id).Str("kind", string(kind)).Str("status", string(status)).Str("user_id", actor.ID).Msg("transición aplicada")
	return updated, nil
}

// DecideEntry aprueba o rechaza un registro lleno. Si el formato padre está en
// draft recibe la misma decisión en la misma transacción; en ese caso se devuelve
// el formato, si no el segundo valor es nil.
func (s *Service) DecideEntry(ctx context.Context, actor *entity.User, entryID, decision string) (*entity.RecordEntry, *entity.Controlled, error) {
	status, err := entity.ParseEntryStatus(decision)
	if err != nil {
		return nil, nil, err
	}
	if _, _, _, err := s.access.AuthorizeEntry(ctx, actor, entryID); err != nil {
		return nil, nil, err
	}
	who := actorOf(actor)
	var (
		entry    *entity.RecordEntry
		promoted *entity.Controlled
	)
	err = s.tx.Run(ctx, func(r repository.TxRepos) error {
		e, err := r.Entries.GetForUpdate(ctx, entryID)
		if err != nil {
			return fmt.Errorf("bloquear registro: %w", err)
		}
		if e == nil {
			return domain.ErrNotFound
		}
		if err := rules.ValidateDecision(e, status, who); err != nil {
			return err
		}
		format, err := r.Controlled.GetForUpdate(ctx, entity.KindRecord, e.FormatID)
		if err != nil {
			return fmt.Errorf("bloquear formato: %w", err)
		}
		if format == nil {
			return fmt.Errorf("%w: registro sin formato", domain.ErrConsistencyViolation)
		}
		if e.Status == status {
			entry = e
			return nil
		}
		now := s.now()
		rules.ApplyDecision(e, status, who, now)
		if err := r.Entries.Update(ctx, e); err != nil {
			return fmt.Errorf("actualizar registro: %w", err)
		}
		if rules.PromoteParent(format, status, who, now) {
			if err := r.Controlled.Update(ctx, format); err != nil {
				return fmt.Errorf("promover formato: %w", err)
			}
			promoted = format
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	ev := s.log.Info().Str("entry_id", entryID).Str("status", string(status)).Str("user_id", actor.ID)
	if promoted != nil {
		ev = ev.Str("format_id", promoted.ID).Bool("format_promoted", true)
	}
	ev.Msg("registro decidido")
	return entry, promoted, nil
}

func actorOf(u *entity.User) rules.Actor {
	return rules.Actor{ID: u.ID, IsAdmin: u.IsAdmin()}
}
