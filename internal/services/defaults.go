package services

// defaultCategory describes one of the fixed categories created for every
// new non-admin user, linked to the admin-owned expenditure type.
type defaultCategory struct {
	Name        string
	Description string
}

var defaultCategories = []defaultCategory{
	{
		Name: "utilities",
		Description: "Utility expenses like electricity, gas, water, " +
			"intenet, tv cable, etc.",
	},
	{
		Name: "housing",
		Description: "Rent or mortgage, repairs, housing insurance, " +
			"other housing related expenses.",
	},
	{
		Name:        "food",
		Description: "Groceries, wet market, eating out, etc.",
	},
	{
		Name: "transportation",
		Description: "Car payment, auto insurance, fuel, repair, " +
			"toll gate, etc.",
	},
	{
		Name: "insurance",
		Description: "Health, dental, vision, prescriptions, " +
			"life insurance, disability insurance, others",
	},
	{
		Name: "leisure",
		Description: "Vacation, trips, subscriptions, gifts, movies, " +
			"videos, other recreational activities.",
	},
	{
		Name: "education",
		Description: "Tuition fees, books, children allowances, " +
			"school supplies, educational trips, online " +
			"courses, etc",
	},
	{
		Name: "personal",
		Description: "Toiletries, shoes, bags, fashion, grooming, " +
			"chlothing, laundry, personal care, etc.",
	},
	{
		Name:        "miscellaneous",
		Description: "Computer, phone, child care, pet care, etc",
	},
	{
		Name:        "benevolence",
		Description: "Charity, church, tithes, helping others, etc.",
	},
}
