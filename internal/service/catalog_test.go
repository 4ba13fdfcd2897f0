package service

import (
	"context"
	"testing"

	"github.com/flashvault/flashvault/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCreateSet(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	items := []*models.LearningItem{
		{ItemType: models.ItemFlashcard, Front: "hello", Back: "hola"},
		{
			ItemType:   models.ItemQuizQuestion,
			Front:      "pick the greeting",
			Back:       "hola",
			OptionA:    strPtr("hola"),
			OptionB:    strPtr("adios"),
			OptionC:    strPtr("gracias"),
			OptionD:    strPtr("nada"),
			CorrectOpt: strPtr("a"),
		},
	}

	set, err := svc.CreateSet(context.Background(), "Greetings", "basics", items, testNow)
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if set.SetID == 0 {
		t.Error("set ID not assigned")
	}

	stored, err := repo.GetSetItems(context.Background(), set.SetID)
	if err != nil {
		t.Fatalf("GetSetItems: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("items = %d, want 2", len(stored))
	}
	for i, item := range stored {
		if item.Position != i {
			t.Errorf("item %d position = %d", i, item.Position)
		}
		if item.SetID != set.SetID {
			t.Errorf("item %d set = %d, want %d", i, item.SetID, set.SetID)
		}
	}
}

func TestCreateSetValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		title string
		items []*models.LearningItem
	}{
		{name: "blank title", title: "  "},
		{
			name:  "flashcard with quiz options",
			title: "x",
			items: []*models.LearningItem{
				{ItemType: models.ItemFlashcard, Front: "f", Back: "b", OptionA: strPtr("a")},
			},
		},
		{
			name:  "quiz missing options",
			title: "x",
			items: []*models.LearningItem{
				{ItemType: models.ItemQuizQuestion, Front: "f", Back: "b", CorrectOpt: strPtr("a")},
			},
		},
		{
			name:  "quiz with bogus correct option",
			title: "x",
			items: []*models.LearningItem{
				{
					ItemType: models.ItemQuizQuestion, Front: "f", Back: "b",
					OptionA: strPtr("1"), OptionB: strPtr("2"), OptionC: strPtr("3"), OptionD: strPtr("4"),
					CorrectOpt: strPtr("e"),
				},
			},
		},
		{
			name:  "empty front",
			title: "x",
			items: []*models.LearningItem{{ItemType: models.ItemFlashcard, Back: "b"}},
		},
		{
			name:  "unknown item type",
			title: "x",
			items: []*models.LearningItem{{ItemType: "essay", Front: "f", Back: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateSet(ctx, tt.title, "", tt.items, testNow); err == nil {
				t.Error("invalid input accepted")
			}
		})
	}
}
