package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) CountVotes(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT choice_id, COUNT(*)
		FROM votes
		WHERE question_id = $1
		GROUP BY choice_id
	`

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var choiceID uuid.UUID
		var count int64
		if err := rows.Scan(&choiceID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[choiceID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}

	return counts, nil
}

func (r *tallyRepository) RecomputeChoiceVotes(ctx context.Context, questionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, recomputeChoiceVotesQuery, questionID)
	if err != nil {
		return fmt.Errorf("failed to recompute votes for question %s: %w", questionID, err)
	}

	return nil
}
