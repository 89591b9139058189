package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budgettracker/internal/models"
)

// seedTime is the creation stamp of every built-in category.
var seedTime = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// SystemCategory is one built-in category with a fixed id.
type SystemCategory struct {
	ID          uint
	Name        string
	Icon        string
	Color       string
	Description string
}

// SystemCategories are the read-only categories every user sees. The
// PostgreSQL migration 000002 inserts the same rows.
var SystemCategories = []SystemCategory{
	{1, "Salary", "💰", "#4CAF50", "Monthly salary and wages"},
	{2, "Freelance", "💼", "#2196F3", "Freelance income and side projects"},
	{3, "Investments", "📈", "#9C27B0", "Investment returns and dividends"},
	{4, "Food & Dining", "🍔", "#FF6B6B", "Groceries, restaurants, and food delivery"},
	{5, "Transportation", "🚗", "#4ECDC4", "Fuel, public transport, and car maintenance"},
	{6, "Entertainment", "🎬", "#95E1D3", "Movies, games, subscriptions, and hobbies"},
	{7, "Utilities", "💡", "#F3A683", "Electricity, water, internet, and phone bills"},
	{8, "Healthcare", "🏥", "#786FA6", "Medical expenses, insurance, and pharmacy"},
	{9, "Shopping", "🛍️", "#F8B500", "Clothing, electronics, and general shopping"},
	{10, "Education", "📚", "#3F51B5", "Courses, books, and learning materials"},
	{11, "Housing", "🏠", "#E91E63", "Rent, mortgage, and home maintenance"},
	{12, "Savings", "🐷", "#00BCD4", "Personal savings and emergency fund"},
	{13, "Gifts & Donations", "🎁", "#FF9800", "Presents, charity, and donations"},
	{14, "Travel", "✈️", "#009688", "Vacations, trips, and accommodation"},
	{15, "Personal Care", "💅", "#E91E63", "Haircuts, cosmetics, and wellness"},
	{16, "Insurance", "🛡️", "#607D8B", "Life, health, and property insurance"},
	{17, "Debt Payment", "💳", "#F44336", "Loan payments and credit card bills"},
	{18, "Pets", "🐕", "#8BC34A", "Pet food, vet, and supplies"},
	{19, "Sports & Fitness", "⚽", "#FF5722", "Gym, equipment, and sports activities"},
	{20, "Other", "📌", "#9E9E9E", "Miscellaneous expenses"},
}

// SeedSystemCategories inserts the built-in categories, skipping ids that
// already exist.
func SeedSystemCategories(db *gorm.DB) error {
	rows := make([]models.Category, 0, len(SystemCategories))
	for _, c := range SystemCategories {
		rows = append(rows, models.Category{
			Base:        models.Base{ID: c.ID, CreatedAt: seedTime, UpdatedAt: seedTime},
			Name:        c.Name,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
			IsSystem:    true,
		})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed system categories: %w", err)
	}
	return nil
}
