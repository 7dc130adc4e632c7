package decision

import (
	"fmt"
	"time"
)

// Tally is the snapshot persisted and displayed after each evaluation.
type Tally struct {
	Agreements    int
	Disagreements int
	Abstains      int
	Blocks        int
	Total         int
	Quorum        Progress
	Threshold     Progress
}

type Result struct {
	Proposal    Proposal
	Disposition Disposition
	Tally       Tally
	// StageChanged is false when evaluation left the proposal in its stage.
	StageChanged bool
}

func inputFor(p Proposal, now time.Time) Input {
	return Input{
		Votes:          Classify(p.Votes),
		Config:         p.Config,
		MemberCount:    p.MemberCount,
		Elapsed:        p.Elapsed(now),
		DeadlinePassed: p.DeadlinePassed(now),
	}
}

func tallyOf(policy Policy, in Input) Tally {
	return Tally{
		Agreements:    len(in.Votes.Agreements),
		Disagreements: len(in.Votes.Disagreements),
		Abstains:      len(in.Votes.Abstains),
		Blocks:        len(in.Votes.Blocks),
		Total:         in.Votes.Total(),
		Quorum:        in.Quorum(),
		Threshold:     policy.Threshold(in),
	}
}

// Snapshot computes the tally of p without evaluating a transition.
func Snapshot(p Proposal, now time.Time) (Tally, error) {
	policy, err := PolicyFor(p.DecisionModel)
	if err != nil {
		return Tally{}, err
	}
	return tallyOf(policy, inputFor(p, now)), nil
}

// Transition applies vote (when non-nil) and evaluates the proposal. Only
// proposals in the voting stage can transition; p itself is never modified.
func Transition(p Proposal, vote *Vote, now time.Time) (Result, error) {
	if p.Stage.IsTerminal() {
		return Result{}, fmt.Errorf("%w: proposal %s is %s", ErrInvalidState, p.ID, p.Stage)
	} else if p.Stage != StageVoting {
		return Result{}, fmt.Errorf("%w: proposal %s is in %s until its voting round restarts", ErrInvalidState, p.ID, p.Stage)
	}

	policy, err := PolicyFor(p.DecisionModel)
	if err != nil {
		return Result{}, err
	}

	next := p.Clone()

	if vote != nil {
		if !AllowsVote(policy, p.Kind, vote.VoteType) {
			return Result{}, fmt.Errorf("%w: %q is not allowed for %s %s", ErrIllegalVoteType, vote.VoteType, p.DecisionModel, p.Kind)
		}
		next.Votes = upsertVote(next.Votes, *vote)
	}

	in := inputFor(next, now)
	disposition := policy.Evaluate(in)

	next.Stage = disposition.Stage()
	changed := next.Stage != p.Stage
	if changed {
		next.StageEnteredAt = now
	}

	return Result{
		Proposal:     next,
		Disposition:  disposition,
		Tally:        tallyOf(policy, in),
		StageChanged: changed,
	}, nil
}

// Restart opens a new voting round from revision: votes are cleared, the
// elapsed-time clock restarts and memberCount is re-snapshotted.
func Restart(p Proposal, memberCount int, now time.Time) (Proposal, error) {
	if p.Stage != StageRevision {
		return Proposal{}, fmt.Errorf("%w: proposal %s is in stage %s, restart requires %s", ErrInvalidState, p.ID, p.Stage, StageRevision)
	}
	if memberCount < 1 {
		return Proposal{}, fmt.Errorf("%w: member count must be positive, got %d", ErrInvalidConfig, memberCount)
	}

	next := p.Clone()
	next.Stage = StageVoting
	next.Votes = nil
	next.MemberCount = memberCount
	next.StageEnteredAt = now

	return next, nil
}

// upsertVote replaces the voter's earlier vote in place, keeping its position.
func upsertVote(votes []Vote, vote Vote) []Vote {
	for i := range votes {
		if votes[i].VoterID == vote.VoterID {
			if vote.ID == "" {
				vote.ID = votes[i].ID
			}
			votes[i] = vote
			return votes
		}
	}
	return append(votes, vote)
}
