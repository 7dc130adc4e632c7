package decision

import (
	"fmt"
	"time"
)

type (
	Stage         string
	DecisionModel string
	Kind          string
	VoteType      string
)

func (s Stage) String() string {
	return string(s)
}

func (m DecisionModel) String() string {
	return string(m)
}

func (k Kind) String() string {
	return string(k)
}

func (t VoteType) String() string {
	return string(t)
}

const (
	StageVoting   Stage = "voting"
	StageRatified Stage = "ratified"
	StageRevision Stage = "revision"
	StageClosed   Stage = "closed"

	DecisionModelConsent      DecisionModel = "consent"
	DecisionModelConsensus    DecisionModel = "consensus"
	DecisionModelMajorityVote DecisionModel = "majority-vote"

	KindProposal Kind = "proposal"
	KindPoll     Kind = "poll"

	VoteTypeAgree    VoteType = "agree"
	VoteTypeDisagree VoteType = "disagree"
	VoteTypeAbstain  VoteType = "abstain"
	VoteTypeBlock    VoteType = "block"
)

// IsTerminal reports whether no further votes or transitions are accepted.
func (s Stage) IsTerminal() bool {
	return s == StageRatified || s == StageClosed
}

func ParseStage(value string) (Stage, error) {
	switch stage := Stage(value); stage {
	case StageVoting, StageRatified, StageRevision, StageClosed:
		return stage, nil
	}
	return "", fmt.Errorf("unknown stage %q", value)
}

func ParseDecisionModel(value string) (DecisionModel, error) {
	switch model := DecisionModel(value); model {
	case DecisionModelConsent, DecisionModelConsensus, DecisionModelMajorityVote:
		return model, nil
	}
	return "", fmt.Errorf("unknown decision model %q", value)
}

func ParseKind(value string) (Kind, error) {
	switch kind := Kind(value); kind {
	case KindProposal, KindPoll:
		return kind, nil
	}
	return "", fmt.Errorf("unknown kind %q", value)
}

func ParseVoteType(value string) (VoteType, error) {
	switch voteType := VoteType(value); voteType {
	case VoteTypeAgree, VoteTypeDisagree, VoteTypeAbstain, VoteTypeBlock:
		return voteType, nil
	}
	return "", fmt.Errorf("unknown vote type %q", value)
}

// Config is the configuration snapshot taken when a proposal is created.
type Config struct {
	QuorumEnabled      bool
	QuorumThreshold    int
	AgreementThreshold int
	DisagreementsLimit int
	AbstainsLimit      int
	// VotingTimeLimit of zero means unlimited.
	VotingTimeLimit time.Duration
	ClosingAt       *time.Time
}

func (c Config) HasTimeLimit() bool {
	return c.VotingTimeLimit > 0
}

// Expires reports whether the voting window can ever run out.
func (c Config) Expires() bool {
	return c.HasTimeLimit() || c.ClosingAt != nil
}

type Vote struct {
	ID       string
	VoterID  string
	VoteType VoteType
	CastAt   time.Time
}

type Proposal struct {
	ID             string
	Kind           Kind
	Body           string
	DecisionModel  DecisionModel
	Stage          Stage
	Config         Config
	MemberCount    int
	Votes          []Vote
	CreatedAt      time.Time
	StageEnteredAt time.Time
	// Version is the optimistic-concurrency token owned by storage.
	Version int
}

// Clone returns a copy that shares no mutable state with p.
func (p Proposal) Clone() Proposal {
	clone := p
	clone.Votes = append([]Vote(nil), p.Votes...)
	if p.Config.ClosingAt != nil {
		closingAt := *p.Config.ClosingAt
		clone.Config.ClosingAt = &closingAt
	}
	return clone
}

// Elapsed is the time spent in the current voting round.
func (p Proposal) Elapsed(now time.Time) time.Duration {
	if now.Before(p.StageEnteredAt) {
		return 0
	}
	return now.Sub(p.StageEnteredAt)
}

// DeadlinePassed reports whether the optional closing deadline has been reached.
func (p Proposal) DeadlinePassed(now time.Time) bool {
	return p.Config.ClosingAt != nil && !now.Before(*p.Config.ClosingAt)
}

// WindowElapsed reports whether the voting window is over, by time limit or deadline.
func (p Proposal) WindowElapsed(now time.Time) bool {
	return inputFor(p, now).WindowElapsed()
}
