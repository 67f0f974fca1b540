package models

// User represents an account holder. The distinguished admin user owns the
// global default category types that every other user can read.
type User struct {
	Base
	Username         string `gorm:"uniqueIndex;not null" json:"username"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	IsStaff          bool   `gorm:"default:false" json:"is_staff"`
	IsActive         bool   `gorm:"default:true" json:"is_active"`
	IsSuperuser      bool   `gorm:"default:false" json:"is_superuser"`
	RefreshTokenHash string `gorm:"size:64" json:"-"`

	Profile       *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CategoryTypes []CategoryType `gorm:"foreignKey:UserID" json:"category_types,omitempty"`
	Categories    []Category     `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	BudgetPlans   []BudgetPlan   `gorm:"foreignKey:UserID" json:"budget_plans,omitempty"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
