package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/feedgate/feedgate/internal/auth"
)

// testDB connects to the migrated test database, or skips.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := os.Getenv("FEEDGATE_TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("FEEDGATE_TEST_DATABASE_HOST not set; skipping repository integration test")
	}

	name := os.Getenv("FEEDGATE_TEST_DATABASE_NAME")
	if name == "" {
		name = "feedgate_test"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		host,
		os.Getenv("FEEDGATE_TEST_DATABASE_USER"),
		os.Getenv("FEEDGATE_TEST_DATABASE_PASSWORD"),
		name,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("pinging test database: %v", err)
	}
	return db
}

// fixtureNode creates a user, a hardware row, and a node owned by that
// user. Cleanup cascades through feeds.
func fixtureNode(t *testing.T, db *sql.DB) (userID, nodeID int64) {
	t.Helper()

	username := fmt.Sprintf("feed-test-%d", time.Now().UnixNano())
	err := db.QueryRow(
		`INSERT INTO users (username, email, password, is_active)
		 VALUES ($1, $2, 'x', TRUE) RETURNING id`,
		username, username+"@example.com",
	).Scan(&userID)
	if err != nil {
		t.Fatalf("inserting fixture user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", userID) //nolint:errcheck // test cleanup
	})

	var hardwareID int64
	err = db.QueryRow(
		`INSERT INTO hardwares (name, type, description)
		 VALUES ('test-board', 'microcontroller unit', '') RETURNING id`,
	).Scan(&hardwareID)
	if err != nil {
		t.Fatalf("inserting fixture hardware: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM hardwares WHERE id = $1", hardwareID) //nolint:errcheck // test cleanup
	})

	err = db.QueryRow(
		`INSERT INTO nodes (user_id, hardware_id, name, location, sensor_ids, sensor_names, is_public)
		 VALUES ($1, $2, 'feed-node', '', '{}', '{}', FALSE) RETURNING id`,
		userID, hardwareID,
	).Scan(&nodeID)
	if err != nil {
		t.Fatalf("inserting fixture node: %v", err)
	}

	return userID, nodeID
}

func TestRepository_InsertAndList(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID, nodeID := fixtureNode(t, db)
	owner := auth.Identity{UserID: userID}

	if err := repo.Insert(ctx, owner, &Payload{NodeID: nodeID, Values: []float64{21.5, 60.2}}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, owner, &Payload{NodeID: nodeID, Values: []float64{22.0, 59.8}}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	feeds, err := repo.ListByNode(ctx, nodeID)
	if err != nil {
		t.Fatalf("ListByNode() error = %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("ListByNode() returned %d feeds, want 2", len(feeds))
	}
	if len(feeds[0].Values) != 2 {
		t.Errorf("Values = %v", feeds[0].Values)
	}
	if feeds[0].Time.IsZero() {
		t.Error("reading has zero timestamp")
	}
}

// A node that is missing or owned by someone else inserts zero rows;
// both collapse to ErrNodeNotFound.
func TestRepository_InsertOwnershipScoped(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID, nodeID := fixtureNode(t, db)
	stranger := auth.Identity{UserID: userID + 1}
	admin := auth.Identity{UserID: userID + 1, IsAdmin: true}

	p := &Payload{NodeID: nodeID, Values: []float64{1}}
	if err := repo.Insert(ctx, stranger, p); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("stranger Insert() error = %v, want ErrNodeNotFound", err)
	}
	if err := repo.Insert(ctx, admin, p); err != nil {
		t.Errorf("admin Insert() error = %v", err)
	}

	missing := &Payload{NodeID: -1, Values: []float64{1}}
	if err := repo.Insert(ctx, auth.Identity{UserID: userID}, missing); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Insert(missing node) error = %v, want ErrNodeNotFound", err)
	}
}
