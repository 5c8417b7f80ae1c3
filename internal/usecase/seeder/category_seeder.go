package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// Fixed UUIDs for the default top-level categories
var (
	CAT_FOOD      = uuid.MustParse("00000000-0000-0000-0001-000000000001")
	CAT_TRANSPORT = uuid.MustParse("00000000-0000-0000-0001-000000000002")
	CAT_HOUSING   = uuid.MustParse("00000000-0000-0000-0001-000000000003")
	CAT_SHOPPING  = uuid.MustParse("00000000-0000-0000-0001-000000000004")
	CAT_LEISURE   = uuid.MustParse("00000000-0000-0000-0001-000000000005")
	CAT_HEALTH    = uuid.MustParse("00000000-0000-0000-0001-000000000006")
	CAT_SALARY    = uuid.MustParse("00000000-0000-0000-0002-000000000001")
	CAT_INVESTING = uuid.MustParse("00000000-0000-0000-0002-000000000002")
	CAT_OTHER_IN  = uuid.MustParse("00000000-0000-0000-0002-000000000003")
)

// DefaultCategory defines a category to be seeded together with its children
type DefaultCategory struct {
	ID       uuid.UUID
	Name     string
	Emoji    string
	Type     domain.CategoryType
	Children []DefaultCategory
}

// DefaultCategories is the two-level category set every new ledger starts with.
// Child ids share the parent's group and differ in the last block.
var DefaultCategories = []DefaultCategory{
	{ID: CAT_FOOD, Name: "Food", Emoji: "🍜", Type: domain.CategoryTypeExpense, Children: []DefaultCategory{
		{ID: uuid.MustParse("00000000-0000-0001-0001-000000000001"), Name: "Groceries", Emoji: "🛒"},
		{ID: uuid.MustParse("00000000-0000-0001-0001-000000000002"), Name: "Dining Out", Emoji: "🍽️"},
		{ID: uuid.MustParse("00000000-0000-0001-0001-000000000003"), Name: "Coffee & Snacks", Emoji: "☕"},
	}},
	{ID: CAT_TRANSPORT, Name: "Transport", Emoji: "🚇", Type: domain.CategoryTypeExpense, Children: []DefaultCategory{
		{ID: uuid.MustParse("00000000-0000-0001-0002-000000000001"), Name: "Public Transit", Emoji: "🚌"},
		{ID: uuid.MustParse("00000000-0000-0001-0002-000000000002"), Name: "Taxi", Emoji: "🚕"},
		{ID: uuid.MustParse("00000000-0000-0001-0002-000000000003"), Name: "Fuel", Emoji: "⛽"},
	}},
	{ID: CAT_HOUSING, Name: "Housing", Emoji: "🏠", Type: domain.CategoryTypeExpense, Children: []DefaultCategory{
		{ID: uuid.MustParse("00000000-0000-0001-0003-000000000001"), Name: "Rent", Emoji: "🔑"},
		{ID: uuid.MustParse("00000000-0000-0001-0003-000000000002"), Name: "Utilities", Emoji: "💡"},
	}},
	{ID: CAT_SHOPPING, Name: "Shopping", Emoji: "🛍️", Type: domain.CategoryTypeExpense, Children: []DefaultCategory{
		{ID: uuid.MustParse("00000000-0000-0001-0004-000000000001"), Name: "Clothing", Emoji: "👕"},
		{ID: uuid.MustParse("00000000-0000-0001-0004-000000000002"), Name: "Electronics", Emoji: "📱"},
	}},
	{ID: CAT_LEISURE, Name: "Leisure", Emoji: "🎮", Type: domain.CategoryTypeExpense},
	{ID: CAT_HEALTH, Name: "Health", Emoji: "💊", Type: domain.CategoryTypeExpense},
	{ID: CAT_SALARY, Name: "Salary", Emoji: "💰", Type: domain.CategoryTypeIncome, Children: []DefaultCategory{
		{ID: uuid.MustParse("00000000-0000-0002-0001-000000000001"), Name: "Base Pay", Emoji: "💵"},
		{ID: uuid.MustParse("00000000-0000-0002-0001-000000000002"), Name: "Bonus", Emoji: "🎁"},
	}},
	{ID: CAT_INVESTING, Name: "Investment Income", Emoji: "📈", Type: domain.CategoryTypeIncome},
	{ID: CAT_OTHER_IN, Name: "Other Income", Emoji: "🪙", Type: domain.CategoryTypeIncome},
}

// CategorySeeder handles seeding of the default categories
type CategorySeeder struct {
	repo domain.CategoryRepository
}

// NewCategorySeeder creates a new CategorySeeder instance
func NewCategorySeeder(repo domain.CategoryRepository) *CategorySeeder {
	return &CategorySeeder{
		repo: repo,
	}
}

// Seed ensures all default categories exist in the database.
// Existing categories are left untouched, so running it twice is a no-op.
func (s *CategorySeeder) Seed(ctx context.Context) error {
	for _, parent := range DefaultCategories {
		if err := s.ensure(ctx, domain.Category{
			ID:    parent.ID,
			Name:  parent.Name,
			Emoji: parent.Emoji,
			Type:  parent.Type,
		}); err != nil {
			return err
		}

		parentID := parent.ID
		for _, child := range parent.Children {
			if err := s.ensure(ctx, domain.Category{
				ID:       child.ID,
				Name:     child.Name,
				Emoji:    child.Emoji,
				Type:     parent.Type,
				ParentID: &parentID,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *CategorySeeder) ensure(ctx context.Context, category domain.Category) error {
	_, err := s.repo.GetByID(ctx, category.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up category %s: %w", category.Name, err)
	}

	// Validate before creating
	if err := category.Validate(); err != nil {
		return err
	}

	return s.repo.Create(ctx, &category)
}
