package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/catalog"
	"github.com/feedgate/feedgate/internal/feed"
	"github.com/feedgate/feedgate/internal/infrastructure/config"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
	"github.com/feedgate/feedgate/internal/node"
)

const testSecret = "test-secret-at-least-32-characters-long"

// fakeUserRepo is an in-memory auth.UserRepository.
type fakeUserRepo struct {
	users  map[int64]*auth.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*auth.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return auth.ErrUsernameExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]auth.UserSummary, error) {
	summaries := []auth.UserSummary{}
	for _, u := range f.users {
		summaries = append(summaries, auth.UserSummary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			IsActive: u.IsActive,
			IsAdmin:  u.IsAdmin,
		})
	}
	return summaries, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

// fakeHardwareRepo is an in-memory catalog.HardwareRepository. It also
// serves as the hardware lookup during node validation.
type fakeHardwareRepo struct {
	entries map[int64]*catalog.Hardware
	nextID  int64
}

func newFakeHardwareRepo() *fakeHardwareRepo {
	return &fakeHardwareRepo{entries: map[int64]*catalog.Hardware{}, nextID: 1}
}

func (f *fakeHardwareRepo) List(_ context.Context) ([]catalog.Hardware, error) {
	entries := []catalog.Hardware{}
	for _, h := range f.entries {
		entries = append(entries, *h)
	}
	return entries, nil
}

func (f *fakeHardwareRepo) GetByID(_ context.Context, id int64) (*catalog.Hardware, error) {
	h, ok := f.entries[id]
	if !ok {
		return nil, catalog.ErrHardwareNotFound
	}
	clone := *h
	return &clone, nil
}

func (f *fakeHardwareRepo) Insert(_ context.Context, p *catalog.Payload) (*catalog.Hardware, error) {
	h := &catalog.Hardware{ID: f.nextID, Name: p.Name, Type: p.Type, Description: p.Description}
	f.nextID++
	f.entries[h.ID] = h
	clone := *h
	return &clone, nil
}

func (f *fakeHardwareRepo) Update(_ context.Context, id int64, p *catalog.Payload) error {
	h, ok := f.entries[id]
	if !ok {
		return catalog.ErrHardwareNotFound
	}
	h.Name, h.Type, h.Description = p.Name, p.Type, p.Description
	return nil
}

func (f *fakeHardwareRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.entries[id]; !ok {
		return catalog.ErrHardwareNotFound
	}
	delete(f.entries, id)
	return nil
}

// fakeNodeRepo is an in-memory node.Repository honouring visibility
// and ownership scoping the way the SQL statements do.
type fakeNodeRepo struct {
	nodes  map[int64]*node.Node
	nextID int64
}

func newFakeNodeRepo() *fakeNodeRepo {
	return &fakeNodeRepo{nodes: map[int64]*node.Node{}, nextID: 1}
}

func (f *fakeNodeRepo) List(_ context.Context, identity auth.Identity) ([]node.NodeWithFeeds, error) {
	result := []node.NodeWithFeeds{}
	for _, n := range f.nodes {
		if node.CanView(identity, n) {
			result = append(result, node.NodeWithFeeds{Node: *n, Feeds: []feed.Feed{}})
		}
	}
	return result, nil
}

func (f *fakeNodeRepo) GetWithFeeds(_ context.Context, id int64, identity auth.Identity) (*node.NodeWithFeeds, error) {
	n, ok := f.nodes[id]
	if !ok || !node.CanView(identity, n) {
		return nil, node.ErrNodeNotFound
	}
	return &node.NodeWithFeeds{Node: *n, Feeds: []feed.Feed{}}, nil
}

func (f *fakeNodeRepo) Insert(_ context.Context, identity auth.Identity, p *node.Payload) (*node.Node, error) {
	n := &node.Node{
		ID:          f.nextID,
		OwnerID:     identity.UserID,
		HardwareID:  p.HardwareID,
		Name:        p.Name,
		Location:    p.Location,
		SensorIDs:   p.SensorIDs,
		SensorNames: p.SensorNames,
		IsPublic:    p.IsPublic,
	}
	f.nextID++
	f.nodes[n.ID] = n
	clone := *n
	return &clone, nil
}

func (f *fakeNodeRepo) Update(_ context.Context, id int64, identity auth.Identity, p *node.Payload) error {
	n, ok := f.nodes[id]
	if !ok || !node.CanMutate(identity, n) {
		return node.ErrNodeNotFound
	}
	n.HardwareID, n.Name, n.Location = p.HardwareID, p.Name, p.Location
	n.SensorIDs, n.SensorNames, n.IsPublic = p.SensorIDs, p.SensorNames, p.IsPublic
	return nil
}

func (f *fakeNodeRepo) Delete(_ context.Context, id int64, identity auth.Identity) error {
	n, ok := f.nodes[id]
	if !ok || !node.CanMutate(identity, n) {
		return node.ErrNodeNotFound
	}
	delete(f.nodes, id)
	return nil
}

// fakeFeedRepo is an in-memory feed.Repository scoped by ownership.
type fakeFeedRepo struct {
	nodes    *fakeNodeRepo
	inserted []feed.Payload
}

func (f *fakeFeedRepo) Insert(_ context.Context, identity auth.Identity, p *feed.Payload) error {
	n, ok := f.nodes.nodes[p.NodeID]
	if !ok || !node.CanMutate(identity, n) {
		return feed.ErrNodeNotFound
	}
	f.inserted = append(f.inserted, *p)
	return nil
}

func (f *fakeFeedRepo) ListByNode(_ context.Context, _ int64) ([]feed.Feed, error) {
	return []feed.Feed{}, nil
}

// testEnv bundles the server under test with its fakes.
type testEnv struct {
	handler  http.Handler
	users    *fakeUserRepo
	hardware *fakeHardwareRepo
	nodes    *fakeNodeRepo
	feeds    *fakeFeedRepo
	security config.SecurityConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSecurity(t, config.SecurityConfig{
		JWT: config.JWTConfig{Secret: testSecret, TokenTTLHours: 1, ActivationTTLHours: 1},
	})
}

func newTestEnvWithSecurity(t *testing.T, security config.SecurityConfig) *testEnv {
	t.Helper()

	logger := logging.New(config.LoggingConfig{Level: "error", Format: "json"}, "test")
	users := newFakeUserRepo()
	hardware := newFakeHardwareRepo()
	nodes := newFakeNodeRepo()
	feeds := &fakeFeedRepo{nodes: nodes}

	server, err := New(Deps{
		Config:   config.HTTPConfig{Host: "127.0.0.1", Port: 0},
		Security: security,
		Logger:   logger,
		Verifier: auth.NewVerifier(security.JWT.Secret),
		Users:    users,
		Hardware: hardware,
		Nodes:    nodes,
		Feeds:    feed.NewService(feeds, nil, logger),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &testEnv{
		handler:  server.buildRouter(),
		users:    users,
		hardware: hardware,
		nodes:    nodes,
		feeds:    feeds,
		security: security,
	}
}

// addUser registers an account directly in the fake store and returns
// a valid session token for it.
func (e *testEnv) addUser(t *testing.T, username string, isAdmin bool) (*auth.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	user := &auth.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      isAdmin,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	token, err := auth.GenerateToken(user, e.security.JWT.Secret, 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return user, token
}

// do performs one request against the router and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelopeResult) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env envelopeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshalling envelope from %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

// envelopeResult is the decoded response envelope.
type envelopeResult struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
