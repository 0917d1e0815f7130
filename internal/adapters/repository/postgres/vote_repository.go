package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

// recomputeChoiceVotesQuery rewrites the cached counters of one question from the ledger.
const recomputeChoiceVotesQuery = `
	UPDATE choices c
	SET votes = (SELECT COUNT(*) FROM votes v WHERE v.choice_id = c.id)
	WHERE c.question_id = $1
`

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) Upsert(ctx context.Context, vote *domain.Vote) (domain.VoteOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockQuestion(ctx, tx, vote.QuestionID); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO votes (id, question_id, user_id, choice_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (question_id, user_id) DO UPDATE
		SET choice_id = EXCLUDED.choice_id,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err = tx.QueryRowContext(ctx, query,
		vote.ID, vote.QuestionID, vote.UserID, vote.ChoiceID, vote.CreatedAt, vote.UpdatedAt,
	).Scan(&vote.ID, &vote.CreatedAt, &inserted)
	if err != nil {
		return 0, mapVoteError(err)
	}

	if _, err := tx.ExecContext(ctx, recomputeChoiceVotesQuery, vote.QuestionID); err != nil {
		return 0, fmt.Errorf("failed to recompute choice votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, mapVoteError(err)
	}

	if inserted {
		return domain.VoteCreated, nil
	}
	return domain.VoteUpdated, nil
}

func (r *voteRepository) Get(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, question_id, user_id, choice_id, created_at, updated_at
		FROM votes
		WHERE question_id = $1 AND user_id = $2
	`
	var vote domain.Vote
	err := r.db.QueryRowContext(ctx, query, questionID, userID).Scan(
		&vote.ID, &vote.QuestionID, &vote.UserID, &vote.ChoiceID, &vote.CreatedAt, &vote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &vote, nil
}

func (r *voteRepository) Delete(ctx context.Context, questionID, userID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockQuestion(ctx, tx, questionID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE question_id = $1 AND user_id = $2`, questionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	if n == 0 {
		return domain.ErrVoteNotFound
	}

	if _, err := tx.ExecContext(ctx, recomputeChoiceVotesQuery, questionID); err != nil {
		return fmt.Errorf("failed to recompute choice votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockQuestion serializes ledger writes per question so the cached counters
// are recomputed against committed rows only.
func lockQuestion(ctx context.Context, tx *sql.Tx, questionID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM questions WHERE id = $1 FOR NO KEY UPDATE`, questionID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrQuestionNotFound
		}
		return fmt.Errorf("failed to lock question: %w", err)
	}
	return nil
}

func mapVoteError(err error) error {
	pqErr, ok := pqError(err)
	if !ok {
		return fmt.Errorf("failed to save vote: %w", err)
	}

	switch pqErr.Code {
	case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %s", domain.ErrVoteConflict, pqErr.Message)
	case codeForeignKeyViolation:
		if pqErr.Constraint == "votes_choice_fkey" {
			return domain.ErrNoChoiceSelected
		}
		if pqErr.Constraint == "votes_question_id_fkey" {
			return domain.ErrQuestionNotFound
		}
		return fmt.Errorf("failed to save vote: %w", err)
	default:
		return fmt.Errorf("failed to save vote: %w", err)
	}
}
