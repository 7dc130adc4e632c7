package decision

import (
	"fmt"
	"time"
)

// Validate enforces the constraints the engine trusts when it evaluates a proposal.
func (c Config) Validate(model DecisionModel) error {
	if _, err := ParseDecisionModel(model.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	percentages := []struct {
		name  string
		value int
	}{
		{"quorum threshold", c.QuorumThreshold},
		{"agreement threshold", c.AgreementThreshold},
	}
	for _, p := range percentages {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%w: %s %d is outside [0,100]", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.DisagreementsLimit < 0 || c.AbstainsLimit < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidConfig)
	}
	if c.VotingTimeLimit < 0 {
		return fmt.Errorf("%w: voting time limit must not be negative", ErrInvalidConfig)
	}
	// Storage keeps whole seconds.
	if c.VotingTimeLimit%time.Second != 0 {
		return fmt.Errorf("%w: voting time limit %s is not a whole number of seconds", ErrInvalidConfig, c.VotingTimeLimit)
	}

	switch model {
	case DecisionModelMajorityVote:
		if c.AgreementThreshold <= 50 {
			return fmt.Errorf("%w: majority vote requires a ratification threshold above 50, got %d", ErrInvalidConfig, c.AgreementThreshold)
		}
	case DecisionModelConsent:
		if !c.Expires() {
			return fmt.Errorf("%w: consent requires a voting time limit", ErrInvalidConfig)
		}
	}

	return nil
}
