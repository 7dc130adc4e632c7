package decision

import (
	"fmt"
	"time"
)

type Disposition string

const (
	DispositionStayVoting     Disposition = "stay-voting"
	DispositionRatify         Disposition = "ratify"
	DispositionSendToRevision Disposition = "send-to-revision"
	DispositionClose          Disposition = "close"
)

func (d Disposition) String() string {
	return string(d)
}

// Stage maps a disposition onto the stage it leads to.
func (d Disposition) Stage() Stage {
	switch d {
	case DispositionRatify:
		return StageRatified
	case DispositionSendToRevision:
		return StageRevision
	case DispositionClose:
		return StageClosed
	default:
		return StageVoting
	}
}

// Input is everything a policy looks at in one evaluation.
type Input struct {
	Votes          Classified
	Config         Config
	MemberCount    int
	Elapsed        time.Duration
	DeadlinePassed bool
}

func (in Input) WindowElapsed() bool {
	if in.Config.HasTimeLimit() && in.Elapsed >= in.Config.VotingTimeLimit {
		return true
	}
	return in.DeadlinePassed
}

func (in Input) AllMembersVoted() bool {
	return in.MemberCount > 0 && in.Votes.Total() >= in.MemberCount
}

// Quorum is vacuously met when quorum is disabled.
func (in Input) Quorum() Progress {
	if !in.Config.QuorumEnabled {
		return Progress{Percentage: 100, IsMet: true}
	}
	return QuorumProgress(in.Votes.Total(), in.MemberCount, in.Config.QuorumThreshold)
}

func (in Input) overLimits() bool {
	return len(in.Votes.Disagreements) > in.Config.DisagreementsLimit ||
		len(in.Votes.Abstains) > in.Config.AbstainsLimit
}

// Policy is implemented once per decision-making model. Evaluate checks blocks,
// then limits, then time, quorum and threshold; the first match wins.
type Policy interface {
	Model() DecisionModel
	Allows(voteType VoteType) bool
	Threshold(in Input) Progress
	Evaluate(in Input) Disposition

	policy()
}

func PolicyFor(model DecisionModel) (Policy, error) {
	switch model {
	case DecisionModelConsent:
		return consentPolicy{}, nil
	case DecisionModelConsensus:
		return consensusPolicy{}, nil
	case DecisionModelMajorityVote:
		return majorityVotePolicy{}, nil
	}
	return nil, fmt.Errorf("%w: unknown decision model %q", ErrInvalidConfig, model)
}

// AllowsVote combines the model's legal set with the reduced set of polls.
func AllowsVote(policy Policy, kind Kind, voteType VoteType) bool {
	if kind == KindPoll && voteType != VoteTypeAgree && voteType != VoteTypeDisagree {
		return false
	}
	return policy.Allows(voteType)
}

func allowsAnyVote(voteType VoteType) bool {
	_, err := ParseVoteType(voteType.String())
	return err == nil
}

type consentPolicy struct{}

func (consentPolicy) policy() {}

func (consentPolicy) Model() DecisionModel {
	return DecisionModelConsent
}

func (consentPolicy) Allows(voteType VoteType) bool {
	return allowsAnyVote(voteType)
}

// Threshold is informational for consent; ratification does not depend on it.
func (consentPolicy) Threshold(in Input) Progress {
	return ThresholdProgress(len(in.Votes.Agreements), in.Votes.Total(), in.Config.AgreementThreshold)
}

func (consentPolicy) Evaluate(in Input) Disposition {
	if len(in.Votes.Blocks) > 0 {
		return DispositionSendToRevision
	}
	if in.overLimits() {
		return DispositionSendToRevision
	}
	if in.Quorum().IsMet && (in.WindowElapsed() || in.AllMembersVoted()) {
		return DispositionRatify
	}
	return DispositionStayVoting
}

type consensusPolicy struct{}

func (consensusPolicy) policy() {}

func (consensusPolicy) Model() DecisionModel {
	return DecisionModelConsensus
}

func (consensusPolicy) Allows(voteType VoteType) bool {
	return allowsAnyVote(voteType)
}

// Threshold is measured among cast votes.
func (consensusPolicy) Threshold(in Input) Progress {
	return ThresholdProgress(len(in.Votes.Agreements), in.Votes.Total(), in.Config.AgreementThreshold)
}

// Evaluate needs at least one agreement to ratify, since the threshold floors
// to zero when few votes are cast.
func (p consensusPolicy) Evaluate(in Input) Disposition {
	if len(in.Votes.Blocks) > 0 {
		return DispositionSendToRevision
	}
	if in.overLimits() {
		return DispositionSendToRevision
	}

	finished := in.WindowElapsed() || in.AllMembersVoted()
	if finished && in.Quorum().IsMet && len(in.Votes.Agreements) > 0 && p.Threshold(in).IsMet {
		return DispositionRatify
	}
	if in.WindowElapsed() {
		return DispositionSendToRevision
	}
	return DispositionStayVoting
}

type majorityVotePolicy struct{}

func (majorityVotePolicy) policy() {}

func (majorityVotePolicy) Model() DecisionModel {
	return DecisionModelMajorityVote
}

func (majorityVotePolicy) Allows(voteType VoteType) bool {
	return voteType != VoteTypeBlock && allowsAnyVote(voteType)
}

// Threshold is measured among all members.
func (majorityVotePolicy) Threshold(in Input) Progress {
	return ThresholdProgress(len(in.Votes.Agreements), in.MemberCount, in.Config.AgreementThreshold)
}

// Evaluate ignores blocks and limits; blocks never reach a majority vote.
// At least one agreement is needed even when the floored threshold is zero.
func (p majorityVotePolicy) Evaluate(in Input) Disposition {
	if in.Quorum().IsMet && len(in.Votes.Agreements) > 0 && p.Threshold(in).IsMet {
		return DispositionRatify
	}
	if in.WindowElapsed() {
		return DispositionClose
	}
	return DispositionStayVoting
}
