package repositories

import (
	"fmt"
	"time"

	"group_decisions/internal/db/models"
	"group_decisions/internal/decision"

	"github.com/google/uuid"
)

// assignIDs gives a fresh identifier to the proposal and any vote lacking one.
func assignIDs(proposal decision.Proposal) decision.Proposal {
	proposal = proposal.Clone()
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	for i := range proposal.Votes {
		if proposal.Votes[i].ID == "" {
			proposal.Votes[i].ID = uuid.NewString()
		}
	}
	return proposal
}

func toRow(proposal decision.Proposal) *models.Proposal {
	row := &models.Proposal{
		ID:                 proposal.ID,
		Kind:               proposal.Kind.String(),
		Body:               proposal.Body,
		DecisionModel:      proposal.DecisionModel.String(),
		Stage:              proposal.Stage.String(),
		QuorumEnabled:      proposal.Config.QuorumEnabled,
		QuorumThreshold:    proposal.Config.QuorumThreshold,
		AgreementThreshold: proposal.Config.AgreementThreshold,
		DisagreementsLimit: proposal.Config.DisagreementsLimit,
		AbstainsLimit:      proposal.Config.AbstainsLimit,
		VotingTimeLimit:    int64(proposal.Config.VotingTimeLimit / time.Second),
		ClosingAt:          proposal.Config.ClosingAt,
		MemberCount:        proposal.MemberCount,
		CreatedAt:          proposal.CreatedAt,
		StageEnteredAt:     proposal.StageEnteredAt,
		Version:            proposal.Version,
		Votes:              make([]*models.Vote, 0, len(proposal.Votes)),
	}

	for i, vote := range proposal.Votes {
		row.Votes = append(row.Votes, &models.Vote{
			ID:         vote.ID,
			ProposalID: proposal.ID,
			VoterID:    vote.VoterID,
			Type:       vote.VoteType.String(),
			Position:   i,
			CastAt:     vote.CastAt,
		})
	}

	return row
}

// toDomain rejects unknown enumerations so they never reach the engine.
func toDomain(row *models.Proposal) (decision.Proposal, error) {
	kind, err := decision.ParseKind(row.Kind)
	if err != nil {
		return decision.Proposal{}, fmt.Errorf("proposal %s: %w", row.ID, err)
	}
	model, err := decision.ParseDecisionModel(row.DecisionModel)
	if err != nil {
		return decision.Proposal{}, fmt.Errorf("proposal %s: %w", row.ID, err)
	}
	stage, err := decision.ParseStage(row.Stage)
	if err != nil {
		return decision.Proposal{}, fmt.Errorf("proposal %s: %w", row.ID, err)
	}

	proposal := decision.Proposal{
		ID:            row.ID,
		Kind:          kind,
		Body:          row.Body,
		DecisionModel: model,
		Stage:         stage,
		Config: decision.Config{
			QuorumEnabled:      row.QuorumEnabled,
			QuorumThreshold:    row.QuorumThreshold,
			AgreementThreshold: row.AgreementThreshold,
			DisagreementsLimit: row.DisagreementsLimit,
			AbstainsLimit:      row.AbstainsLimit,
			VotingTimeLimit:    time.Duration(row.VotingTimeLimit) * time.Second,
			ClosingAt:          row.ClosingAt,
		},
		MemberCount:    row.MemberCount,
		CreatedAt:      row.CreatedAt,
		StageEnteredAt: row.StageEnteredAt,
		Version:        row.Version,
		Votes:          make([]decision.Vote, 0, len(row.Votes)),
	}

	for _, vote := range row.Votes {
		voteType, err := decision.ParseVoteType(vote.Type)
		if err != nil {
			return decision.Proposal{}, fmt.Errorf("proposal %s, vote %s: %w", row.ID, vote.ID, err)
		}
		proposal.Votes = append(proposal.Votes, decision.Vote{
			ID:       vote.ID,
			VoterID:  vote.VoterID,
			VoteType: voteType,
			CastAt:   vote.CastAt,
		})
	}

	return proposal, nil
}
