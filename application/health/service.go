package health

import (
	"context"
	"fmt"

	"mlop-ingest/internal/authdb"
	"mlop-ingest/internal/columnstore"
)

type Service struct {
	authDB *authdb.DB
	store  *columnstore.Store
}

func NewService(authDB *authdb.DB, store *columnstore.Store) *Service {
	return &Service{authDB: authDB, store: store}
}

// CheckHealth pings both collaborators the gateway cannot serve a single
// request without. Either one being down makes the gateway unhealthy.
func (s *Service) CheckHealth(ctx context.Context) error {
	if err := s.authDB.Ping(); err != nil {
		return fmt.Errorf("auth database unreachable: %w", err)
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("column store unreachable: %w", err)
	}
	return nil
}
