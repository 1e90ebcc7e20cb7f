package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
)

var _ repository.RecordEntryRepository = (*EntryRepo)(nil)

// EntryRepo registros llenos de los formatos.
type EntryRepo struct {
	db Querier
}

// NewEntryRepository construye el adaptador.
func NewEntryRepository(db Querier) *EntryRepo {
	return &EntryRepo{db: db}
}

const entryColumns = `id, format_id, name, realization_date, file_name, file_path, file_size, content_type,
	uploaded_by, status, approved_by, approved_at, notes, created_at, updated_at`

func scanEntry(row pgx.Row) (*entity.RecordEntry, error) {
	var e entity.RecordEntry
	err := row.Scan(&e.ID, &e.FormatID, &e.Name, &e.RealizationDate,
		&e.File.Name, &e.File.Path, &e.File.Size, &e.File.ContentType,
		&e.UploadedBy, &e.Status, &e.ApprovedBy, &e.ApprovedAt, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *EntryRepo) Create(ctx context.Context, e *entity.RecordEntry) error {
	query := `
		INSERT INTO record_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.FormatID, e.Name, e.RealizationDate, e.File.Name, e.File.Path, e.File.Size, e.File.ContentType,
		e.UploadedBy, string(e.Status), e.ApprovedBy, e.ApprovedAt, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record entry: %w", err)
	}
	return nil
}

func (r *EntryRepo) GetByID(ctx context.Context, id string) (*entity.RecordEntry, error) {
	return r.get(ctx, `SELECT `+entryColumns+` FROM record_entries WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *EntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.RecordEntry, error) {
	return r.get(ctx, `SELECT `+entryColumns+` FROM record_entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *EntryRepo) get(ctx context.Context, query, id string) (*entity.RecordEntry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get record entry: %w", err)
	}
	return e, nil
}

func (r *EntryRepo) Update(ctx context.Context, e *entity.RecordEntry) error {
	query := `
		UPDATE record_entries
		   SET name = $2, realization_date = $3, status = $4, approved_by = $5,
		       approved_at = $6, notes = $7, updated_at = $8
		 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		e.ID, e.Name, e.RealizationDate, string(e.Status), e.ApprovedBy, e.ApprovedAt, e.Notes, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update record entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByFormat registros del formato, el más reciente primero.
func (r *EntryRepo) ListByFormat(ctx context.Context, formatID string) ([]*entity.RecordEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM record_entries WHERE format_id = $1 ORDER BY realization_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, formatID)
	if err != nil {
		return nil, fmt.Errorf("list record entries: %w", err)
	}
	defer rows.Close()

	list := []*entity.RecordEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EntryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM record_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete record entry: %w", err)
	}
	return nil
}

func (r *EntryRepo) DeleteByFormat(ctx context.Context, formatID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM record_entries WHERE format_id = $1`, formatID); err != nil {
		return fmt.Errorf("delete record entries: %w", err)
	}
	return nil
}
