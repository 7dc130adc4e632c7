package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(voteType VoteType, n int) []VoteType {
	types := make([]VoteType, n)
	for i := range types {
		types[i] = voteType
	}
	return types
}

func inputWith(config Config, memberCount int, elapsed time.Duration, types ...VoteType) Input {
	return Input{
		Votes:       Classify(votesOf(types...)),
		Config:      config,
		MemberCount: memberCount,
		Elapsed:     elapsed,
	}
}

func mustPolicy(t *testing.T, model DecisionModel) Policy {
	policy, err := PolicyFor(model)
	require.NoError(t, err)
	return policy
}

var consentConfig = Config{
	QuorumEnabled:      true,
	QuorumThreshold:    50,
	DisagreementsLimit: 2,
	AbstainsLimit:      2,
	VotingTimeLimit:    24 * time.Hour,
}

func TestConsent_SingleBlockSendsToRevision(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)
	types := append(repeat(VoteTypeAgree, 9), VoteTypeBlock)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consentConfig, 10, 48*time.Hour, types...)))
}

func TestConsent_DisagreementsOverLimit(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)
	types := append(repeat(VoteTypeAgree, 5), repeat(VoteTypeDisagree, 3)...)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consentConfig, 10, time.Hour, types...)))
}

func TestConsent_AbstainsOverLimit(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)
	types := append(repeat(VoteTypeAgree, 5), repeat(VoteTypeAbstain, 3)...)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consentConfig, 10, time.Hour, types...)))
}

func TestConsent_DisagreementsAtLimitDoNotRevise(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)
	types := append(repeat(VoteTypeAgree, 5), repeat(VoteTypeDisagree, 2)...)

	assert.Equal(t, DispositionRatify, policy.Evaluate(inputWith(consentConfig, 10, 25*time.Hour, types...)))
}

func TestConsent_WaitsForWindow(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)

	assert.Equal(t, DispositionStayVoting, policy.Evaluate(inputWith(consentConfig, 10, time.Hour, repeat(VoteTypeAgree, 6)...)))
}

func TestConsent_RatifiesWhenEveryoneVoted(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)

	assert.Equal(t, DispositionRatify, policy.Evaluate(inputWith(consentConfig, 4, time.Hour, repeat(VoteTypeAgree, 4)...)))
}

func TestConsent_ElapsedWithoutQuorumStaysVoting(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)

	assert.Equal(t, DispositionStayVoting, policy.Evaluate(inputWith(consentConfig, 10, 48*time.Hour, repeat(VoteTypeAgree, 2)...)))
}

func TestConsent_DeadlineCountsAsElapsed(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)
	in := inputWith(consentConfig, 10, time.Hour, repeat(VoteTypeAgree, 5)...)
	in.DeadlinePassed = true

	assert.Equal(t, DispositionRatify, policy.Evaluate(in))
}

func TestConsent_BlockCheckedBeforeLimits(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsent)
	types := append(repeat(VoteTypeDisagree, 5), VoteTypeBlock)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consentConfig, 10, time.Hour, types...)))
}

var consensusConfig = Config{
	QuorumEnabled:      true,
	QuorumThreshold:    50,
	AgreementThreshold: 75,
	DisagreementsLimit: 5,
	AbstainsLimit:      5,
	VotingTimeLimit:    24 * time.Hour,
}

func TestConsensus_BlockForcesRevisionRegardlessOfThreshold(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	types := append(repeat(VoteTypeAgree, 9), VoteTypeBlock)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consensusConfig, 10, 48*time.Hour, types...)))
}

func TestConsensus_RatifiesWithQuorumAndThreshold(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	types := append(repeat(VoteTypeAgree, 6), repeat(VoteTypeDisagree, 2)...)

	assert.Equal(t, DispositionRatify, policy.Evaluate(inputWith(consensusConfig, 10, 25*time.Hour, types...)))
}

func TestConsensus_ThresholdMissedAfterWindow(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	types := append(repeat(VoteTypeAgree, 4), repeat(VoteTypeDisagree, 4)...)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consensusConfig, 10, 25*time.Hour, types...)))
}

func TestConsensus_StaysVotingInsideWindow(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)

	assert.Equal(t, DispositionStayVoting, policy.Evaluate(inputWith(consensusConfig, 10, time.Hour, repeat(VoteTypeAgree, 8)...)))
}

func TestConsensus_LimitsApply(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	types := append(repeat(VoteTypeAgree, 2), repeat(VoteTypeDisagree, 6)...)

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(consensusConfig, 10, time.Hour, types...)))
}

func TestConsensus_NoVotesAfterWindowRevises(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	config := consensusConfig
	config.QuorumEnabled = false

	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(inputWith(config, 10, 25*time.Hour)))
}

func TestConsensus_LoneDisagreeAfterWindowRevises(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	config := consensusConfig
	config.QuorumEnabled = false
	config.AgreementThreshold = 51
	in := inputWith(config, 10, 25*time.Hour, VoteTypeDisagree)

	assert.Equal(t, 0, policy.Threshold(in).Required)
	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(in))
}

func TestConsensus_SoleMemberAbstainingDoesNotRatify(t *testing.T) {
	policy := mustPolicy(t, DecisionModelConsensus)
	in := inputWith(consensusConfig, 1, time.Hour, VoteTypeAbstain)

	assert.True(t, in.AllMembersVoted())
	assert.Equal(t, DispositionStayVoting, policy.Evaluate(in))
	in.Elapsed = 25 * time.Hour
	assert.Equal(t, DispositionSendToRevision, policy.Evaluate(in))
}

var majorityConfig = Config{
	QuorumEnabled:      true,
	QuorumThreshold:    50,
	AgreementThreshold: 51,
	VotingTimeLimit:    24 * time.Hour,
}

func TestMajorityVote_ThresholdBoundaries(t *testing.T) {
	policy := mustPolicy(t, DecisionModelMajorityVote)

	for _, tc := range []struct {
		agreements int
		elapsed    time.Duration
		expected   Disposition
	}{
		{6, time.Hour, DispositionRatify},
		{5, time.Hour, DispositionRatify},
		{4, time.Hour, DispositionStayVoting},
		{4, 25 * time.Hour, DispositionClose},
	} {
		types := append(repeat(VoteTypeAgree, tc.agreements), repeat(VoteTypeDisagree, 6-tc.agreements)...)
		assert.Equal(t, tc.expected, policy.Evaluate(inputWith(majorityConfig, 10, tc.elapsed, types...)), "agreements=%d", tc.agreements)
	}
}

func TestMajorityVote_IgnoresDisagreementVolume(t *testing.T) {
	policy := mustPolicy(t, DecisionModelMajorityVote)
	config := majorityConfig
	config.QuorumEnabled = false
	types := append(repeat(VoteTypeAgree, 5), repeat(VoteTypeDisagree, 5)...)

	assert.Equal(t, DispositionRatify, policy.Evaluate(inputWith(config, 10, time.Hour, types...)))
}

func TestMajorityVote_QuorumRequired(t *testing.T) {
	policy := mustPolicy(t, DecisionModelMajorityVote)
	config := majorityConfig
	config.QuorumThreshold = 80

	assert.Equal(t, DispositionStayVoting, policy.Evaluate(inputWith(config, 10, time.Hour, repeat(VoteTypeAgree, 6)...)))
}

func TestMajorityVote_ZeroAgreementsNeverRatify(t *testing.T) {
	policy := mustPolicy(t, DecisionModelMajorityVote)
	config := majorityConfig
	config.QuorumEnabled = false

	assert.Equal(t, DispositionStayVoting, policy.Evaluate(inputWith(config, 1, time.Hour)))
}

func TestPolicy_LegalVoteTypes(t *testing.T) {
	consent := mustPolicy(t, DecisionModelConsent)
	consensus := mustPolicy(t, DecisionModelConsensus)
	majority := mustPolicy(t, DecisionModelMajorityVote)

	assert.True(t, consent.Allows(VoteTypeBlock))
	assert.True(t, consensus.Allows(VoteTypeBlock))
	assert.False(t, majority.Allows(VoteTypeBlock))
	assert.True(t, majority.Allows(VoteTypeAbstain))
	assert.False(t, consent.Allows(VoteType("maybe")))

	assert.False(t, AllowsVote(consent, KindPoll, VoteTypeAbstain))
	assert.False(t, AllowsVote(consent, KindPoll, VoteTypeBlock))
	assert.True(t, AllowsVote(consent, KindPoll, VoteTypeDisagree))
	assert.True(t, AllowsVote(consent, KindProposal, VoteTypeAbstain))
}

func TestPolicyFor_Models(t *testing.T) {
	for _, model := range []DecisionModel{DecisionModelConsent, DecisionModelConsensus, DecisionModelMajorityVote} {
		assert.Equal(t, model, mustPolicy(t, model).Model())
	}
}

func TestPolicyFor_UnknownModel(t *testing.T) {
	_, err := PolicyFor(DecisionModel("sortition"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDisposition_Stage(t *testing.T) {
	assert.Equal(t, StageVoting, DispositionStayVoting.Stage())
	assert.Equal(t, StageRatified, DispositionRatify.Stage())
	assert.Equal(t, StageRevision, DispositionSendToRevision.Stage())
	assert.Equal(t, StageClosed, DispositionClose.Stage())
}
