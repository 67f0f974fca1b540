package models

// DefaultCategoryTypes are the admin-owned types created at provisioning time
// and readable by every user.
var DefaultCategoryTypes = []string{"income", "savings", "expenditure"}

// CategoryType is a top-level classification for categories. UserID is
// nullable: the admin user owns the global defaults, regular users own
// their private types.
type CategoryType struct {
	Base
	Name   string  `gorm:"size:50;not null" json:"name"`
	UserID *string `gorm:"type:uuid;index" json:"user_id,omitempty"`

	Categories  []Category   `gorm:"foreignKey:CategoryTypeID;constraint:OnDelete:SET NULL" json:"categories,omitempty"`
	BudgetPlans []BudgetPlan `gorm:"many2many:budget_plan_category_types" json:"budget_plans,omitempty"`
}

// IsDefault reports whether the type is one of the protected defaults owned
// by the given admin user.
func (t *CategoryType) IsDefault(adminID string) bool {
	if t.UserID == nil || *t.UserID != adminID {
		return false
	}
	for _, name := range DefaultCategoryTypes {
		if t.Name == name {
			return true
		}
	}
	return false
}
