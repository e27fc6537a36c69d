package node

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/feed"
)

// Repository defines the interface for node persistence.
type Repository interface {
	List(ctx context.Context, identity auth.Identity) ([]NodeWithFeeds, error)
	GetWithFeeds(ctx context.Context, id int64, identity auth.Identity) (*NodeWithFeeds, error)
	Insert(ctx context.Context, identity auth.Identity, p *Payload) (*Node, error)
	Update(ctx context.Context, id int64, identity auth.Identity, p *Payload) error
	Delete(ctx context.Context, id int64, identity auth.Identity) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed node repository.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const nodeColumns = `id, user_id, hardware_id, name, location, sensor_ids, sensor_names, is_public`

// List returns every node the identity can see, each with its feeds.
//
// Visibility is resolved in a single filtered query: admins match all
// rows, everyone else matches owned or public rows. Feeds for the
// whole result set are fetched in one batch query keyed by node id.
func (r *PostgresRepository) List(ctx context.Context, identity auth.Identity) ([]NodeWithFeeds, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE $1 OR user_id = $2 OR is_public
		 ORDER BY id ASC`,
		identity.IsAdmin, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()

	nodes := []Node{}
	ids := []int64{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
		ids = append(ids, n.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	feedsByNode, err := r.feedsForNodes(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]NodeWithFeeds, 0, len(nodes))
	for _, n := range nodes {
		feeds := feedsByNode[n.ID]
		if feeds == nil {
			feeds = []feed.Feed{}
		}
		result = append(result, NodeWithFeeds{Node: n, Feeds: feeds})
	}
	return result, nil
}

// GetWithFeeds returns one visible node with its feed history.
// A node outside the identity's visibility is ErrNodeNotFound, not a
// distinct forbidden outcome.
func (r *PostgresRepository) GetWithFeeds(ctx context.Context, id int64, identity auth.Identity) (*NodeWithFeeds, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE id = $1 AND ($2 OR user_id = $3 OR is_public)`,
		id, identity.IsAdmin, identity.UserID)

	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}

	feedsByNode, err := r.feedsForNodes(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	feeds := feedsByNode[id]
	if feeds == nil {
		feeds = []feed.Feed{}
	}

	return &NodeWithFeeds{Node: *n, Feeds: feeds}, nil
}

// Insert creates a node owned by the caller.
func (r *PostgresRepository) Insert(ctx context.Context, identity auth.Identity, p *Payload) (*Node, error) {
	n := Node{
		OwnerID:     identity.UserID,
		HardwareID:  p.HardwareID,
		Name:        p.Name,
		Location:    p.Location,
		SensorIDs:   p.SensorIDs,
		SensorNames: p.SensorNames,
		IsPublic:    p.IsPublic,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO nodes (user_id, hardware_id, name, location, sensor_ids, sensor_names, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		identity.UserID, p.HardwareID, p.Name, p.Location,
		pq.Array(p.SensorIDs), pq.Array(p.SensorNames), p.IsPublic,
	).Scan(&n.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting node: %w", err)
	}
	return &n, nil
}

// Update replaces a node's fields in one ownership-scoped statement.
// Zero affected rows — missing node or wrong owner alike — maps to
// ErrNodeNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id int64, identity auth.Identity, p *Payload) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE nodes
		 SET hardware_id = $1, name = $2, location = $3,
		     sensor_ids = $4, sensor_names = $5, is_public = $6
		 WHERE id = $7 AND ($8 OR user_id = $9)`,
		p.HardwareID, p.Name, p.Location,
		pq.Array(p.SensorIDs), pq.Array(p.SensorNames), p.IsPublic,
		id, identity.IsAdmin, identity.UserID)
	if err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	return checkAffected(result)
}

// Delete removes a node in one ownership-scoped statement.
func (r *PostgresRepository) Delete(ctx context.Context, id int64, identity auth.Identity) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM nodes WHERE id = $1 AND ($2 OR user_id = $3)`,
		id, identity.IsAdmin, identity.UserID)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	return checkAffected(result)
}

// feedsForNodes fetches feeds for a set of nodes in one query,
// grouped by node id.
func (r *PostgresRepository) feedsForNodes(ctx context.Context, ids []int64) (map[int64][]feed.Feed, error) {
	byNode := map[int64][]feed.Feed{}
	if len(ids) == 0 {
		return byNode, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, node_id, time, value FROM feeds
		 WHERE node_id = ANY($1)
		 ORDER BY time ASC`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("listing feeds for nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f feed.Feed
		var values pq.Float64Array
		if err := rows.Scan(&f.ID, &f.NodeID, &f.Time, &values); err != nil {
			return nil, fmt.Errorf("scanning feed: %w", err)
		}
		f.Values = []float64(values)
		byNode[f.NodeID] = append(byNode[f.NodeID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feeds: %w", err)
	}
	return byNode, nil
}

// scanner is an interface over sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanNode scans one node row, converting array columns.
func scanNode(s scanner) (*Node, error) {
	var n Node
	var sensorIDs pq.Int64Array
	var sensorNames pq.StringArray

	err := s.Scan(&n.ID, &n.OwnerID, &n.HardwareID, &n.Name, &n.Location,
		&sensorIDs, &sensorNames, &n.IsPublic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}

	n.SensorIDs = []int64(sensorIDs)
	n.SensorNames = []string(sensorNames)
	return &n, nil
}

// checkAffected maps a zero affected-row count to ErrNodeNotFound.
func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}
