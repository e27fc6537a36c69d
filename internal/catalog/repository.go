package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// HardwareRepository defines the interface for catalog persistence.
type HardwareRepository interface {
	List(ctx context.Context) ([]Hardware, error)
	GetByID(ctx context.Context, id int64) (*Hardware, error)
	Insert(ctx context.Context, p *Payload) (*Hardware, error)
	Update(ctx context.Context, id int64, p *Payload) error
	Delete(ctx context.Context, id int64) error
}

// PostgresHardwareRepository implements HardwareRepository using PostgreSQL.
type PostgresHardwareRepository struct {
	db *sql.DB
}

// NewHardwareRepository creates a PostgreSQL-backed catalog repository.
func NewHardwareRepository(db *sql.DB) *PostgresHardwareRepository {
	return &PostgresHardwareRepository{db: db}
}

// List returns all catalog entries ordered by ID.
func (r *PostgresHardwareRepository) List(ctx context.Context) ([]Hardware, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, description FROM hardwares ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing hardware: %w", err)
	}
	defer rows.Close()

	entries := []Hardware{}
	for rows.Next() {
		var h Hardware
		if err := rows.Scan(&h.ID, &h.Name, &h.Type, &h.Description); err != nil {
			return nil, fmt.Errorf("scanning hardware: %w", err)
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hardware: %w", err)
	}
	return entries, nil
}

// GetByID retrieves a catalog entry.
func (r *PostgresHardwareRepository) GetByID(ctx context.Context, id int64) (*Hardware, error) {
	var h Hardware
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, description FROM hardwares WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.Type, &h.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHardwareNotFound
		}
		return nil, fmt.Errorf("querying hardware: %w", err)
	}
	return &h, nil
}

// Insert creates a catalog entry and returns it with the generated ID.
func (r *PostgresHardwareRepository) Insert(ctx context.Context, p *Payload) (*Hardware, error) {
	h := Hardware{Name: p.Name, Type: p.Type, Description: p.Description}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO hardwares (name, type, description) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.Type, p.Description,
	).Scan(&h.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting hardware: %w", err)
	}
	return &h, nil
}

// Update replaces a catalog entry's fields. A missing row maps to
// ErrHardwareNotFound via the affected-row count.
func (r *PostgresHardwareRepository) Update(ctx context.Context, id int64, p *Payload) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE hardwares SET name = $1, type = $2, description = $3 WHERE id = $4`,
		p.Name, p.Type, p.Description, id)
	if err != nil {
		return fmt.Errorf("updating hardware: %w", err)
	}
	return checkAffected(result, ErrHardwareNotFound)
}

// Delete removes a catalog entry.
func (r *PostgresHardwareRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hardwares WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting hardware: %w", err)
	}
	return checkAffected(result, ErrHardwareNotFound)
}

// checkAffected maps a zero affected-row count to notFound.
func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
