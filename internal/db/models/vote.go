package models

import "time"

type Vote struct {
	ID         string    `json:"id" pg:",pk"`
	ProposalID string    `json:"proposal_id" pg:",notnull"`
	VoterID    string    `json:"voter_id" pg:",notnull"`
	Type       string    `json:"type" pg:",notnull"`
	Position   int       `json:"position" pg:",use_zero"`
	CastAt     time.Time `json:"cast_at" pg:",notnull"`
}
