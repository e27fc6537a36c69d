package feed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/feedgate/feedgate/internal/auth"
)

// Repository defines the interface for feed persistence.
type Repository interface {
	Insert(ctx context.Context, identity auth.Identity, p *Payload) error
	ListByNode(ctx context.Context, nodeID int64) ([]Feed, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed feed repository.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a reading for a node the caller may write to.
//
// Ownership is enforced inside the statement: the INSERT selects from
// nodes with a predicate carrying both the node id and the caller, so
// a node that is missing or owned by someone else inserts zero rows.
// That outcome maps to ErrNodeNotFound without a separate
// authorization round trip.
func (r *PostgresRepository) Insert(ctx context.Context, identity auth.Identity, p *Payload) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO feeds (node_id, value)
		 SELECT n.id, $2::double precision[]
		 FROM nodes n
		 WHERE n.id = $1 AND ($3 OR n.user_id = $4)`,
		p.NodeID, pq.Array(p.Values), identity.IsAdmin, identity.UserID)
	if err != nil {
		return fmt.Errorf("inserting feed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// ListByNode returns a node's readings in time order.
// Visibility is the caller's concern; the node repository resolves it
// before asking for feeds.
func (r *PostgresRepository) ListByNode(ctx context.Context, nodeID int64) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, node_id, time, value FROM feeds WHERE node_id = $1 ORDER BY time ASC`,
		nodeID)
	if err != nil {
		return nil, fmt.Errorf("listing feeds: %w", err)
	}
	defer rows.Close()

	feeds := []Feed{}
	for rows.Next() {
		var f Feed
		var values pq.Float64Array
		if err := rows.Scan(&f.ID, &f.NodeID, &f.Time, &values); err != nil {
			return nil, fmt.Errorf("scanning feed: %w", err)
		}
		f.Values = []float64(values)
		feeds = append(feeds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feeds: %w", err)
	}
	return feeds, nil
}
