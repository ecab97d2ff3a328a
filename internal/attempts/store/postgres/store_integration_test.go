//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"auditgate/internal/admission/models"
	"auditgate/internal/attempts"
	"auditgate/pkg/domain"
	"auditgate/pkg/testutil/containers"
)

type AttemptStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestAttemptStoreSuite(t *testing.T) {
	suite.Run(t, new(AttemptStoreSuite))
}

func (s *AttemptStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = New(s.pg.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *AttemptStoreSuite) SetupTest() {
	_, err := s.pg.Pool.Exec(context.Background(), "TRUNCATE audit_attempts")
	s.Require().NoError(err)
}

func (s *AttemptStoreSuite) TestAppendAndListLeads() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i, reason := range []models.Reason{models.ReasonDuplicate, models.ReasonNone, models.ReasonRateLimit} {
		e := attempts.Entry{
			ID:            domain.NewAttemptID(),
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			BusinessName:  "Acme",
			Location:      "Boise, ID",
			BusinessKey:   "acme-boise-id",
			SourceAddress: "10.0.0.1",
			Allowed:       reason == models.ReasonNone,
			Reason:        reason,
			IsLead:        reason.IsLeadSignal(),
		}
		s.Require().NoError(s.store.Append(ctx, e))
		// Redelivery is a no-op.
		s.Require().NoError(s.store.Append(ctx, e))
	}

	leads, err := s.store.ListLeads(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(leads, 2)
	s.Equal(models.ReasonRateLimit, leads[0].Reason)
	s.Equal(models.ReasonDuplicate, leads[1].Reason)
	s.Equal(domain.BusinessKey("acme-boise-id"), leads[0].BusinessKey)
}
