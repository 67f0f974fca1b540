package models

import "time"

// Transaction is a dated monetary movement attributed to a category.
// Deleting the category clears the reference and keeps the transaction.
type Transaction struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:100" json:"description"`
	Comment     *string   `json:"comment,omitempty"`
	CategoryID  *string   `gorm:"type:uuid" json:"category_id,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
