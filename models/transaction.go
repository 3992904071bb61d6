package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is a single income or expense event. Type is stored on the
// row itself and is not required to match the linked category's type.
type Transaction struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Amount          float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description     string         `json:"description" gorm:"size:255;not null"`
	TransactionDate time.Time      `json:"transaction_date" gorm:"type:date;not null;index"`
	Type            string         `json:"type" gorm:"size:10;not null;index"`
	CategoryID      uint           `json:"category_id" gorm:"index;not null"`
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	Notes           *string        `json:"notes" gorm:"size:500"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	Category        Category       `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	User            User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (Transaction) TableName() string {
	return "transactions"
}
