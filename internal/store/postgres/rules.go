package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tally-dev/tally/internal/model"
)

type rules struct {
	s *Store
}

func (r *rules) ForAccount(ctx context.Context, accountID uuid.UUID) ([]model.Rule, error) {
	query := `
		SELECT id, account_id, contains
		FROM rules
		WHERE account_id = $1
		ORDER BY id
	`
	rows, err := r.s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var out []model.Rule
	for rows.Next() {
		var rule model.Rule
		if err := rows.Scan(&rule.ID, &rule.AccountID, &rule.Contains); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	for i := range out {
		if out[i].Tags, err = r.tagsFor(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *rules) tagsFor(ctx context.Context, ruleID int) ([]model.Tag, error) {
	rows, err := r.s.pool.Query(ctx,
		`SELECT tag_id, tag_name FROM rule_tags WHERE rule_id = $1 ORDER BY tag_id`, ruleID)
	if err != nil {
		return nil, fmt.Errorf("querying rule tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scanning rule tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
