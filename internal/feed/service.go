package feed

import (
	"context"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
)

// Mirror receives accepted readings for secondary time-series storage.
// Writes are fire-and-forget; a mirror failure never fails ingestion.
type Mirror interface {
	Write(nodeID int64, values []float64)
}

// Service is the shared ingestion path. Both front-ends hand it an
// already-authenticated identity and a decoded payload; it authorizes
// via the ownership-scoped insert and optionally mirrors the reading.
type Service struct {
	repo   Repository
	mirror Mirror
	logger *logging.Logger
}

// NewService creates the ingestion service. mirror may be nil when no
// secondary store is configured.
func NewService(repo Repository, mirror Mirror, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		mirror: mirror,
		logger: logger.With("component", "feed"),
	}
}

// Ingest validates, authorizes, and stores one reading.
//
// Returns:
//   - ErrInvalidPayload: no values, or no node id
//   - ErrNodeNotFound: node missing or not writable by the caller
//   - storage errors, wrapped
func (s *Service) Ingest(ctx context.Context, identity auth.Identity, p *Payload) error {
	if p.NodeID == 0 || len(p.Values) == 0 {
		return ErrInvalidPayload
	}

	if err := s.repo.Insert(ctx, identity, p); err != nil {
		return err
	}

	if s.mirror != nil {
		s.mirror.Write(p.NodeID, p.Values)
	}

	return nil
}
