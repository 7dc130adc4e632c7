package repositories

import (
	"context"
	"testing"
	"time"

	"group_decisions/internal/decision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProposalRepository_CreateAndLoad(t *testing.T) {
	ctx := context.Background()
	repository := NewMemoryProposalRepository()

	created, err := repository.Create(ctx, decision.Proposal{Stage: decision.StageVoting})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Version)

	loaded, err := repository.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
}

func TestMemoryProposalRepository_LoadMissing(t *testing.T) {
	_, err := NewMemoryProposalRepository().Load(context.Background(), "missing")
	assert.ErrorIs(t, err, decision.ErrNotFound)
}

func TestMemoryProposalRepository_SaveChecksVersion(t *testing.T) {
	ctx := context.Background()
	repository := NewMemoryProposalRepository(decision.Proposal{ID: "p-1", Stage: decision.StageVoting})

	first, err := repository.Load(ctx, "p-1")
	require.NoError(t, err)
	second, err := repository.Load(ctx, "p-1")
	require.NoError(t, err)

	first.Votes = append(first.Votes, decision.Vote{VoterID: "u1", VoteType: decision.VoteTypeAgree})
	saved, err := repository.Save(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)
	assert.NotEmpty(t, saved.Votes[0].ID)

	_, err = repository.Save(ctx, second)
	assert.ErrorIs(t, err, decision.ErrWriteConflict)

	_, err = repository.Save(ctx, decision.Proposal{ID: "missing"})
	assert.ErrorIs(t, err, decision.ErrNotFound)
}

func TestMemoryProposalRepository_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repository := NewMemoryProposalRepository(decision.Proposal{
		ID:    "p-1",
		Votes: []decision.Vote{{ID: "v-1", VoterID: "u1", VoteType: decision.VoteTypeAgree}},
	})

	loaded, err := repository.Load(ctx, "p-1")
	require.NoError(t, err)
	loaded.Votes[0].VoteType = decision.VoteTypeBlock

	reloaded, err := repository.Load(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, decision.VoteTypeAgree, reloaded.Votes[0].VoteType)
}

func TestMemoryProposalRepository_ListExpirable(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := base.Add(time.Hour)
	repository := NewMemoryProposalRepository(
		decision.Proposal{ID: "limited", Stage: decision.StageVoting, CreatedAt: base.Add(time.Minute), Config: decision.Config{VotingTimeLimit: time.Hour}},
		decision.Proposal{ID: "deadline", Stage: decision.StageVoting, CreatedAt: base, Config: decision.Config{ClosingAt: &deadline}},
		decision.Proposal{ID: "unlimited", Stage: decision.StageVoting, CreatedAt: base},
		decision.Proposal{ID: "ratified", Stage: decision.StageRatified, CreatedAt: base, Config: decision.Config{VotingTimeLimit: time.Hour}},
	)

	proposals, err := repository.ListExpirable(context.Background())
	require.NoError(t, err)

	require.Len(t, proposals, 2)
	assert.Equal(t, "deadline", proposals[0].ID)
	assert.Equal(t, "limited", proposals[1].ID)
}
