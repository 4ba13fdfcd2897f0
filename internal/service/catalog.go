package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flashvault/flashvault/internal/models"
)

// CreateSet ingests a new vocabulary set with its items in one transaction.
// Item positions follow the submitted order. Quiz questions must carry their
// four options and the correct one; flashcards must not.
func (s *Service) CreateSet(ctx context.Context, title, description string, items []*models.LearningItem, now time.Time) (*models.VocabularySet, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("set title must not be empty")
	}
	for i, item := range items {
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	set := &models.VocabularySet{
		Title:       title,
		Description: description,
		CreatedAt:   now,
	}

	err := s.repo.RunInTx(ctx, func(tx models.Repository) error {
		if err := tx.CreateSet(ctx, set); err != nil {
			return fmt.Errorf("create set (title: %s): %w", title, err)
		}
		for i, item := range items {
			item.SetID = set.SetID
			item.Position = i
			if err := tx.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create item (set_id: %d, position: %d): %w", set.SetID, i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &StoreUnavailableError{Op: "create set", Err: err}
	}

	return set, nil
}

func validateItem(item *models.LearningItem) error {
	if item.Front == "" || item.Back == "" {
		return fmt.Errorf("front and back must not be empty")
	}

	switch item.ItemType {
	case models.ItemFlashcard:
		if item.OptionA != nil || item.CorrectOpt != nil {
			return fmt.Errorf("flashcard must not carry quiz options")
		}
	case models.ItemQuizQuestion:
		if item.OptionA == nil || item.OptionB == nil || item.OptionC == nil || item.OptionD == nil {
			return fmt.Errorf("quiz question needs all four options")
		}
		if item.CorrectOpt == nil {
			return fmt.Errorf("quiz question needs a correct option")
		}
		switch *item.CorrectOpt {
		case "a", "b", "c", "d":
		default:
			return fmt.Errorf("correct option %q is not one of a, b, c, d", *item.CorrectOpt)
		}
	default:
		return fmt.Errorf("unknown item type: %q", item.ItemType)
	}
	return nil
}
