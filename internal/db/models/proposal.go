package models

import "time"

type Proposal struct {
	ID                 string     `json:"id" pg:",pk"`
	Kind               string     `json:"kind" pg:",notnull,default:'proposal'"`
	Body               string     `json:"body" pg:",notnull"`
	DecisionModel      string     `json:"decision_model" pg:",notnull"`
	Stage              string     `json:"stage" pg:",notnull,default:'voting'"`
	QuorumEnabled      bool       `json:"quorum_enabled" pg:",use_zero"`
	QuorumThreshold    int        `json:"quorum_threshold" pg:",use_zero"`
	AgreementThreshold int        `json:"agreement_threshold" pg:",use_zero"`
	DisagreementsLimit int        `json:"disagreements_limit" pg:",use_zero"`
	AbstainsLimit      int        `json:"abstains_limit" pg:",use_zero"`
	VotingTimeLimit    int64      `json:"voting_time_limit_seconds" pg:"voting_time_limit_seconds,use_zero"`
	ClosingAt          *time.Time `json:"closing_at"`
	MemberCount        int        `json:"member_count" pg:",use_zero"`
	CreatedAt          time.Time  `json:"created_at" pg:",notnull"`
	StageEnteredAt     time.Time  `json:"stage_entered_at" pg:",notnull"`
	Version            int        `json:"version" pg:",use_zero"`
	Votes              []*Vote    `json:"votes" pg:"rel:has-many"`
}
