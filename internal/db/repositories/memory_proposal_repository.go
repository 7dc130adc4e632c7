package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"group_decisions/internal/decision"
)

// memoryProposalRepository keeps proposals in process. Reads and writes copy,
// so callers never share vote slices with the store.
type memoryProposalRepository struct {
	mu        sync.RWMutex
	proposals map[string]decision.Proposal
}

func NewMemoryProposalRepository(seed ...decision.Proposal) ProposalRepository {
	proposals := make(map[string]decision.Proposal, len(seed))
	for _, proposal := range seed {
		proposal = assignIDs(proposal)
		if proposal.Version == 0 {
			proposal.Version = 1
		}
		proposals[proposal.ID] = proposal
	}
	return &memoryProposalRepository{proposals: proposals}
}

func (r *memoryProposalRepository) Create(_ context.Context, proposal decision.Proposal) (decision.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal = assignIDs(proposal)
	if _, ok := r.proposals[proposal.ID]; ok {
		return decision.Proposal{}, fmt.Errorf("%w: proposal %s already exists", decision.ErrWriteConflict, proposal.ID)
	}
	proposal.Version = 1
	r.proposals[proposal.ID] = proposal

	return proposal.Clone(), nil
}

func (r *memoryProposalRepository) Load(_ context.Context, proposalID string) (decision.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	proposal, ok := r.proposals[proposalID]
	if !ok {
		return decision.Proposal{}, fmt.Errorf("%w: proposal %s", decision.ErrNotFound, proposalID)
	}

	return proposal.Clone(), nil
}

func (r *memoryProposalRepository) Save(_ context.Context, proposal decision.Proposal) (decision.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.proposals[proposal.ID]
	if !ok {
		return decision.Proposal{}, fmt.Errorf("%w: proposal %s", decision.ErrNotFound, proposal.ID)
	}
	if stored.Version != proposal.Version {
		return decision.Proposal{}, fmt.Errorf("%w: proposal %s changed since version %d", decision.ErrWriteConflict, proposal.ID, proposal.Version)
	}

	proposal = assignIDs(proposal)
	proposal.Version++
	r.proposals[proposal.ID] = proposal

	return proposal.Clone(), nil
}

func (r *memoryProposalRepository) ListExpirable(_ context.Context) ([]decision.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	proposals := make([]decision.Proposal, 0)
	for _, proposal := range r.proposals {
		if proposal.Stage == decision.StageVoting && proposal.Config.Expires() {
			proposals = append(proposals, proposal.Clone())
		}
	}

	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].ID < proposals[j].ID
		}
		return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
	})

	return proposals, nil
}
