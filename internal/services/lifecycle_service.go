package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"group_decisions/internal/db/repositories"
	"group_decisions/internal/decision"

	"go.uber.org/zap"
)

const defaultMaxWriteAttempts = 3

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewProposal is what a member submits; stage and timestamps are assigned on submit.
type NewProposal struct {
	Kind          decision.Kind
	Body          string
	DecisionModel decision.DecisionModel
	Config        decision.Config
	MemberCount   int
}

// Outcome is returned by every lifecycle operation.
type Outcome struct {
	Proposal     decision.Proposal
	Tally        decision.Tally
	Disposition  decision.Disposition
	StageChanged bool
}

type LifecycleService interface {
	SubmitProposal(ctx context.Context, request NewProposal) (Outcome, error)
	GetProposal(ctx context.Context, proposalID string) (Outcome, error)
	CastVote(ctx context.Context, proposalID, voterID string, voteType decision.VoteType) (Outcome, error)
	EvaluateTimeExpiry(ctx context.Context, proposalID string, now time.Time) (Outcome, error)
	RestartVotingRound(ctx context.Context, proposalID string, memberCount int) (Outcome, error)
	EvaluateExpired(ctx context.Context, now time.Time) ([]Outcome, error)
}

type lifecycleService struct {
	repository       repositories.ProposalRepository
	locker           *keyedLocker
	clock            Clock
	maxWriteAttempts int
	logger           *zap.SugaredLogger
}

type Option func(*lifecycleService)

func WithClock(clock Clock) Option {
	return func(s *lifecycleService) {
		s.clock = clock
	}
}

func WithMaxWriteAttempts(attempts int) Option {
	return func(s *lifecycleService) {
		if attempts > 0 {
			s.maxWriteAttempts = attempts
		}
	}
}

func NewLifecycleService(repository repositories.ProposalRepository, logger *zap.SugaredLogger, options ...Option) LifecycleService {
	service := &lifecycleService{
		repository:       repository,
		locker:           newKeyedLocker(),
		clock:            systemClock{},
		maxWriteAttempts: defaultMaxWriteAttempts,
		logger:           logger,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

func (s *lifecycleService) SubmitProposal(ctx context.Context, request NewProposal) (Outcome, error) {
	kind := request.Kind
	if kind == "" {
		kind = decision.KindProposal
	}
	if _, err := decision.ParseKind(kind.String()); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", decision.ErrInvalidConfig, err)
	}
	if err := request.Config.Validate(request.DecisionModel); err != nil {
		s.logger.Warnw("proposal rejected", "decision_model", request.DecisionModel, "error", err)
		return Outcome{}, err
	}
	if request.MemberCount < 1 {
		return Outcome{}, fmt.Errorf("%w: member count must be positive, got %d", decision.ErrInvalidConfig, request.MemberCount)
	}

	now := s.clock.Now()
	created, err := s.repository.Create(ctx, decision.Proposal{
		Kind:           kind,
		Body:           strings.TrimSpace(request.Body),
		DecisionModel:  request.DecisionModel,
		Stage:          decision.StageVoting,
		Config:         request.Config,
		MemberCount:    request.MemberCount,
		CreatedAt:      now,
		StageEnteredAt: now,
	})
	if err != nil {
		s.logger.Errorw("failed to create proposal", "error", err)
		return Outcome{}, err
	}

	s.logger.Infow("proposal submitted",
		"proposal_id", created.ID,
		"kind", created.Kind,
		"decision_model", created.DecisionModel,
		"member_count", created.MemberCount,
	)
	return s.snapshot(created, now, decision.DispositionStayVoting)
}

func (s *lifecycleService) GetProposal(ctx context.Context, proposalID string) (Outcome, error) {
	proposal, err := s.repository.Load(ctx, proposalID)
	if err != nil {
		return Outcome{}, err
	}
	return s.snapshot(proposal, s.clock.Now(), "")
}

func (s *lifecycleService) CastVote(ctx context.Context, proposalID, voterID string, voteType decision.VoteType) (Outcome, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return Outcome{}, fmt.Errorf("%w: voter id is required", decision.ErrNotFound)
	}

	var expired bool
	outcome, err := s.update(ctx, proposalID, "cast vote", func(proposal decision.Proposal) (Outcome, bool, error) {
		now := s.clock.Now()
		expired = false

		// An elapsed window is resolved on the stored votes, as the expiry sweep would.
		if proposal.Stage == decision.StageVoting && proposal.WindowElapsed(now) {
			resolved, err := decision.Transition(proposal, nil, now)
			if err != nil {
				return Outcome{}, false, err
			}
			if resolved.StageChanged {
				expired = true
				return fromResult(resolved), true, nil
			}
		}

		result, err := decision.Transition(proposal, &decision.Vote{
			VoterID:  voterID,
			VoteType: voteType,
			CastAt:   now,
		}, now)
		if err != nil {
			return Outcome{}, false, err
		}
		return fromResult(result), true, nil
	})
	if err == nil && expired {
		s.logger.Infow("voting window elapsed",
			"proposal_id", proposalID,
			"disposition", outcome.Disposition,
			"stage", outcome.Proposal.Stage,
		)
		err = fmt.Errorf("%w: voting window of proposal %s elapsed, it is now %s", decision.ErrInvalidState, proposalID, outcome.Proposal.Stage)
	}
	if err != nil {
		s.logger.Warnw("vote not cast",
			"proposal_id", proposalID,
			"voter_id", voterID,
			"vote_type", voteType,
			"reason", decision.ReasonCode(err),
			"error", err,
		)
		return Outcome{}, err
	}

	s.logger.Infow("vote cast",
		"proposal_id", proposalID,
		"voter_id", voterID,
		"vote_type", voteType,
		"stage", outcome.Proposal.Stage,
		"agreements", outcome.Tally.Agreements,
		"disagreements", outcome.Tally.Disagreements,
		"abstains", outcome.Tally.Abstains,
		"blocks", outcome.Tally.Blocks,
	)
	return outcome, nil
}

// EvaluateTimeExpiry is a no-op for proposals that are not voting or whose
// window is still open, so repeated calls are safe.
func (s *lifecycleService) EvaluateTimeExpiry(ctx context.Context, proposalID string, now time.Time) (Outcome, error) {
	outcome, err := s.update(ctx, proposalID, "evaluate time expiry", func(proposal decision.Proposal) (Outcome, bool, error) {
		if proposal.Stage != decision.StageVoting || !proposal.WindowElapsed(now) {
			current, err := s.snapshot(proposal, now, "")
			return current, false, err
		}

		result, err := decision.Transition(proposal, nil, now)
		if err != nil {
			return Outcome{}, false, err
		}
		return fromResult(result), result.StageChanged, nil
	})
	if err != nil {
		s.logger.Errorw("failed to evaluate time expiry", "proposal_id", proposalID, "reason", decision.ReasonCode(err), "error", err)
		return Outcome{}, err
	}

	if outcome.StageChanged {
		s.logger.Infow("voting window elapsed",
			"proposal_id", proposalID,
			"disposition", outcome.Disposition,
			"stage", outcome.Proposal.Stage,
		)
	}
	return outcome, nil
}

func (s *lifecycleService) RestartVotingRound(ctx context.Context, proposalID string, memberCount int) (Outcome, error) {
	outcome, err := s.update(ctx, proposalID, "restart voting round", func(proposal decision.Proposal) (Outcome, bool, error) {
		now := s.clock.Now()
		restarted, err := decision.Restart(proposal, memberCount, now)
		if err != nil {
			return Outcome{}, false, err
		}

		outcome, err := s.snapshot(restarted, now, decision.DispositionStayVoting)
		outcome.StageChanged = true
		return outcome, true, err
	})
	if err != nil {
		s.logger.Warnw("voting round not restarted", "proposal_id", proposalID, "reason", decision.ReasonCode(err), "error", err)
		return Outcome{}, err
	}

	s.logger.Infow("voting round restarted", "proposal_id", proposalID, "member_count", memberCount)
	return outcome, nil
}

// EvaluateExpired sweeps every expirable proposal and returns those whose
// stage changed. Failures on one proposal do not stop the sweep.
func (s *lifecycleService) EvaluateExpired(ctx context.Context, now time.Time) ([]Outcome, error) {
	proposals, err := s.repository.ListExpirable(ctx)
	if err != nil {
		s.logger.Errorw("failed to list expirable proposals", "error", err)
		return nil, err
	}

	var changed []Outcome
	var failures []error
	for _, proposal := range proposals {
		if !proposal.WindowElapsed(now) {
			continue
		}

		outcome, err := s.EvaluateTimeExpiry(ctx, proposal.ID, now)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if outcome.StageChanged {
			changed = append(changed, outcome)
		}
	}

	return changed, errors.Join(failures...)
}

// update runs apply under the proposal lock: load, compute, save. Write
// conflicts restart from a fresh load up to maxWriteAttempts times.
func (s *lifecycleService) update(
	ctx context.Context,
	proposalID string,
	operation string,
	apply func(proposal decision.Proposal) (Outcome, bool, error),
) (Outcome, error) {
	unlock := s.locker.Lock(proposalID)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= s.maxWriteAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		proposal, err := s.repository.Load(ctx, proposalID)
		if err != nil {
			return Outcome{}, err
		}

		outcome, save, err := apply(proposal)
		if err != nil {
			return Outcome{}, err
		} else if !save {
			return outcome, nil
		}

		saved, err := s.repository.Save(ctx, outcome.Proposal)
		if errors.Is(err, decision.ErrWriteConflict) {
			s.logger.Warnw("write conflict, retrying",
				"proposal_id", proposalID,
				"operation", operation,
				"attempt", attempt,
			)
			lastErr = err
			continue
		} else if err != nil {
			return Outcome{}, err
		}

		outcome.Proposal = saved
		return outcome, nil
	}

	return Outcome{}, fmt.Errorf("%w: %s on proposal %s failed after %d attempts: %w",
		decision.ErrTransient, operation, proposalID, s.maxWriteAttempts, lastErr)
}

func (s *lifecycleService) snapshot(proposal decision.Proposal, now time.Time, disposition decision.Disposition) (Outcome, error) {
	tally, err := decision.Snapshot(proposal, now)
	if err != nil {
		return Outcome{}, err
	}
	if disposition == "" {
		disposition = dispositionOf(proposal.Stage)
	}
	return Outcome{Proposal: proposal, Tally: tally, Disposition: disposition}, nil
}

func fromResult(result decision.Result) Outcome {
	return Outcome{
		Proposal:     result.Proposal,
		Tally:        result.Tally,
		Disposition:  result.Disposition,
		StageChanged: result.StageChanged,
	}
}

func dispositionOf(stage decision.Stage) decision.Disposition {
	switch stage {
	case decision.StageRatified:
		return decision.DispositionRatify
	case decision.StageRevision:
		return decision.DispositionSendToRevision
	case decision.StageClosed:
		return decision.DispositionClose
	default:
		return decision.DispositionStayVoting
	}
}
