package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// TypeIncome marks money coming in
	TypeIncome = "INCOME"
	// TypeExpense marks money going out
	TypeExpense = "EXPENSE"
)

// DefaultCategoryColor is applied when a category is created without a color
const DefaultCategoryColor = "#FF6B6B"

// IsValidType reports whether t is one of the two transaction types.
func IsValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Category groups transactions. A row with UserID == nil and IsDefault true
// is a system category: visible to every user, immutable by all of them.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Type        string         `json:"type" gorm:"size:10;not null;index"`
	Color       string         `json:"color" gorm:"size:7;default:#FF6B6B"`
	UserID      *uint          `json:"user_id" gorm:"index"`
	IsDefault   bool           `json:"is_default" gorm:"default:false;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the seed set inserted at first startup:
// 4 income and 8 expense categories.
func DefaultCategories() []Category {
	seed := []struct {
		Name  string
		Type  string
		Color string
	}{
		{"Salary", TypeIncome, "#4CAF50"},
		{"Freelance", TypeIncome, "#8BC34A"},
		{"Investments", TypeIncome, "#009688"},
		{"Other Income", TypeIncome, "#CDDC39"},
		{"Food & Dining", TypeExpense, "#FF6B6B"},
		{"Transportation", TypeExpense, "#4ECDC4"},
		{"Housing", TypeExpense, "#45B7D1"},
		{"Shopping", TypeExpense, "#FFA726"},
		{"Entertainment", TypeExpense, "#AB47BC"},
		{"Healthcare", TypeExpense, "#EF5350"},
		{"Education", TypeExpense, "#5C6BC0"},
		{"Other Expense", TypeExpense, "#78909C"},
	}

	cats := make([]Category, 0, len(seed))
	for _, s := range seed {
		cats = append(cats, Category{
			Name:      s.Name,
			Type:      s.Type,
			Color:     s.Color,
			IsDefault: true,
		})
	}
	return cats
}
