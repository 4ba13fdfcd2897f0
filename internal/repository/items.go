package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashvault/flashvault/internal/models"
)

const itemColumns = `item_id, set_id, item_type, front, back, option_a, option_b,
		option_c, option_d, correct_option, passage_ref, position`

func (r *Postgres) CreateSet(ctx context.Context, set *models.VocabularySet) error {
	query := `
		INSERT INTO vocabulary_sets (title, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING set_id
	`

	err := r.QueryRowxContext(ctx, query, set.Title, set.Description, set.CreatedAt).Scan(&set.SetID)
	if err != nil {
		return fmt.Errorf("create set (title: %s): %w", set.Title, err)
	}
	return nil
}

func (r *Postgres) CreateItem(ctx context.Context, item *models.LearningItem) error {
	query := `
		INSERT INTO learning_items (set_id, item_type, front, back, option_a, option_b,
			option_c, option_d, correct_option, passage_ref, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING item_id
	`

	err := r.QueryRowxContext(ctx, query,
		item.SetID, item.ItemType, item.Front, item.Back,
		item.OptionA, item.OptionB, item.OptionC, item.OptionD,
		item.CorrectOpt, item.PassageRef, item.Position,
	).Scan(&item.ItemID)
	if err != nil {
		return fmt.Errorf("create item (set_id: %d, position: %d): %w", item.SetID, item.Position, err)
	}
	return nil
}

func (r *Postgres) GetItem(ctx context.Context, itemID int64) (*models.LearningItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM learning_items
		WHERE item_id = $1
	`

	var item models.LearningItem
	err := r.GetContext(ctx, &item, query, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item (item_id: %d): %w", itemID, err)
	}

	return &item, nil
}

func (r *Postgres) GetSetItems(ctx context.Context, setID int64) ([]*models.LearningItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM learning_items
		WHERE set_id = $1
		ORDER BY position ASC, item_id ASC
	`

	var items []*models.LearningItem
	err := r.SelectContext(ctx, &items, query, setID)
	if err != nil {
		return nil, fmt.Errorf("get set items (set_id: %d): %w", setID, err)
	}

	return items, nil
}

func (r *Postgres) CountSetItems(ctx context.Context, setID int64) (int, error) {
	query := r.psql.Select("COUNT(*)").From("learning_items").Where("set_id = ?", setID)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query (set_id: %d): %w", setID, err)
	}

	var count int
	err = r.QueryRowxContext(ctx, sql, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count set items (set_id: %d): %w", setID, err)
	}
	return count, nil
}

func (r *Postgres) GetAllSetIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT set_id FROM vocabulary_sets ORDER BY set_id ASC`

	var ids []int64
	err := r.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, fmt.Errorf("get all set IDs: %w", err)
	}

	return ids, nil
}
