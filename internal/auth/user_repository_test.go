package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
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

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) *User {
	t.Helper()

	user := &User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		IsActive:     true,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	t.Cleanup(func() {
		repo.db.Exec("DELETE FROM users WHERE id = $1", user.ID) //nolint:errcheck // test cleanup
	})
	return user
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, uniqueName("create"))
	if user.ID == 0 {
		t.Fatal("Create() did not fill in the generated ID")
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != user.Username {
		t.Errorf("Username = %q, want %q", got.Username, user.Username)
	}

	byName, err := repo.GetByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("ID = %d, want %d", byName.ID, user.ID)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	user := createTestUser(t, repo, uniqueName("dup"))

	dup := &User{
		Username:     user.Username,
		Email:        "other@example.com",
		PasswordHash: user.PasswordHash,
	}
	if err := repo.Create(context.Background(), dup); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrUsernameExists", err)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	if _, err := repo.GetByID(context.Background(), -1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID(-1) error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_ListExcludesPassword(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	createTestUser(t, repo, uniqueName("list"))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) == 0 {
		t.Fatal("List() returned no users")
	}
	// UserSummary has no password field; presence in the result type
	// would be a compile error. Check the rest of the shape.
	for _, u := range users {
		if u.Username == "" {
			t.Error("listed user has empty username")
		}
	}
}

func TestUserRepository_SetActiveAndUpdatePassword(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, uniqueName("flags"))

	if err := repo.SetActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.IsActive {
		t.Error("IsActive = true after SetActive(false)")
	}

	if err := repo.UpdatePassword(ctx, user.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	if err := repo.SetActive(ctx, -1, true); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetActive(-1) error = %v, want ErrUserNotFound", err)
	}
	if err := repo.UpdatePassword(ctx, -1, "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword(-1) error = %v, want ErrUserNotFound", err)
	}
}
