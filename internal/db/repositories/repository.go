package repositories

import (
	"context"

	"group_decisions/internal/decision"

	"github.com/go-pg/pg/v10"
)

//go:generate mockgen -source=repository.go -destination=mocks/proposal_repository.go -package=mock_repositories

type repository struct {
	db *pg.DB
}

// ProposalRepository is the storage collaborator of the lifecycle service.
// Save succeeds only if the stored version still equals proposal.Version and
// returns the proposal carrying its new version.
type ProposalRepository interface {
	Create(ctx context.Context, proposal decision.Proposal) (decision.Proposal, error)
	Load(ctx context.Context, proposalID string) (decision.Proposal, error)
	Save(ctx context.Context, proposal decision.Proposal) (decision.Proposal, error)
	ListExpirable(ctx context.Context) ([]decision.Proposal, error)
}
