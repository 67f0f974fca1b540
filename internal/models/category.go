package models

// Category is a named budget line with a planned amount, optionally
// classified under a CategoryType. Deleting the type clears the reference
// rather than cascading.
type Category struct {
	Base
	UserID         string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string  `gorm:"size:50;not null" json:"name"`
	CategoryTypeID *string `gorm:"type:uuid" json:"category_type_id,omitempty"`
	AmountPlanned  float64 `gorm:"default:0" json:"amount_planned"`
	Description    string  `json:"description"`

	CategoryType *CategoryType `gorm:"foreignKey:CategoryTypeID;constraint:OnDelete:SET NULL" json:"category_type,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"transactions,omitempty"`
}
