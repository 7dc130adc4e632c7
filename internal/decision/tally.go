package decision

import "math"

// Progress describes how far a count is from a required bar.
type Progress struct {
	Required   int
	Percentage int
	IsMet      bool
}

// RequiredQuorum rounds up so quorum is never satisfied by a fractional vote.
func RequiredQuorum(memberCount, quorumThresholdPercent int) int {
	return (memberCount*quorumThresholdPercent + 99) / 100
}

// RequiredThreshold rounds down. Quorum rounding up and threshold rounding down
// is policy and changes outcomes at boundary percentages.
func RequiredThreshold(memberCount, thresholdPercent int) int {
	return memberCount * thresholdPercent / 100
}

func QuorumProgress(totalVotesCast, memberCount, quorumThresholdPercent int) Progress {
	return progress(totalVotesCast, RequiredQuorum(memberCount, quorumThresholdPercent))
}

func ThresholdProgress(agreementCount, memberCount, thresholdPercent int) Progress {
	return progress(agreementCount, RequiredThreshold(memberCount, thresholdPercent))
}

func progress(count, required int) Progress {
	if required <= 0 {
		return Progress{Required: required, Percentage: 100, IsMet: true}
	}

	percentage := int(math.Round(float64(count) / float64(required) * 100))
	if percentage > 100 {
		percentage = 100
	}

	return Progress{
		Required:   required,
		Percentage: percentage,
		IsMet:      count >= required,
	}
}
