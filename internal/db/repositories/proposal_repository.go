package repositories

import (
	"context"
	"errors"
	"fmt"

	"group_decisions/internal/db/models"
	"group_decisions/internal/decision"

	"github.com/go-pg/pg/v10"
)

type proposalRepository struct {
	repository
}

func NewProposalRepository(db *pg.DB) ProposalRepository {
	return &proposalRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *proposalRepository) Create(ctx context.Context, proposal decision.Proposal) (decision.Proposal, error) {
	row := toRow(assignIDs(proposal))
	row.Version = 1

	err := r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.ModelContext(ctx, row).Insert(); err != nil {
			return err
		}
		return insertVotes(ctx, tx, row)
	})
	if err != nil {
		return decision.Proposal{}, err
	}

	return r.Load(ctx, row.ID)
}

func (r *proposalRepository) Load(ctx context.Context, proposalID string) (decision.Proposal, error) {
	row := &models.Proposal{}

	err := r.db.ModelContext(ctx, row).
		Relation("Votes", orderVotes).
		Where("id = ?", proposalID).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return decision.Proposal{}, fmt.Errorf("%w: proposal %s", decision.ErrNotFound, proposalID)
	} else if err != nil {
		return decision.Proposal{}, err
	}

	return toDomain(row)
}

func (r *proposalRepository) Save(ctx context.Context, proposal decision.Proposal) (decision.Proposal, error) {
	saved := assignIDs(proposal)
	row := toRow(saved)
	expected := row.Version
	row.Version = expected + 1

	err := r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		result, err := tx.ModelContext(ctx, row).
			WherePK().
			Where("version = ?", expected).
			Update()
		if err != nil {
			return err
		}

		if result.RowsAffected() == 0 {
			exists, err := tx.ModelContext(ctx, (*models.Proposal)(nil)).Where("id = ?", row.ID).Exists()
			if err != nil {
				return err
			} else if !exists {
				return fmt.Errorf("%w: proposal %s", decision.ErrNotFound, row.ID)
			}
			return fmt.Errorf("%w: proposal %s changed since version %d", decision.ErrWriteConflict, row.ID, expected)
		}

		if _, err := tx.ModelContext(ctx, (*models.Vote)(nil)).Where("proposal_id = ?", row.ID).Delete(); err != nil {
			return err
		}
		return insertVotes(ctx, tx, row)
	})
	if err != nil {
		return decision.Proposal{}, err
	}

	saved.Version = row.Version
	return saved, nil
}

func (r *proposalRepository) ListExpirable(ctx context.Context) ([]decision.Proposal, error) {
	rows := make([]*models.Proposal, 0)

	err := r.db.ModelContext(ctx, &rows).
		Relation("Votes", orderVotes).
		Where("stage = ?", decision.StageVoting.String()).
		WhereGroup(func(q *pg.Query) (*pg.Query, error) {
			q = q.WhereOr("voting_time_limit_seconds > 0").
				WhereOr("closing_at IS NOT NULL")
			return q, nil
		}).
		OrderExpr("created_at ASC").
		Select()
	if err != nil {
		return nil, err
	}

	proposals := make([]decision.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}

	return proposals, nil
}

func orderVotes(q *pg.Query) (*pg.Query, error) {
	return q.Order("position ASC"), nil
}

func insertVotes(ctx context.Context, tx *pg.Tx, row *models.Proposal) error {
	if len(row.Votes) == 0 {
		return nil
	}
	_, err := tx.ModelContext(ctx, &row.Votes).Insert()
	return err
}
