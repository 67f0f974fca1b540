package models

import "time"

// BudgetPlan groups category types for a planning period.
type BudgetPlan struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`

	CategoryTypes []CategoryType `gorm:"many2many:budget_plan_category_types" json:"category_types,omitempty"`
}
