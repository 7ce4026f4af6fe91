package notifications

// Category groups notification types under one user-facing mute switch.
type Category string

const (
	CategoryDeliveries Category = "deliveries"
	CategoryProgress   Category = "progress"
	CategoryDeadlines  Category = "deadlines"
)

var typeCategories = map[Type]Category{
	TypeDeliveryCompleted:  CategoryDeliveries,
	TypeDeliveryApproved:   CategoryDeliveries,
	TypeClientComment:      CategoryDeliveries,
	TypeCommentAnswered:    CategoryDeliveries,
	TypeDeliveryProgress:   CategoryProgress,
	TypeDependencyAdded:    CategoryDeadlines,
	TypeDependencyProvided: CategoryDeadlines,
	TypeDependencyOverdue:  CategoryDeadlines,
}

var categoryPolicy = map[Category]func(Preferences) bool{
	CategoryDeliveries: func(p Preferences) bool { return p.Deliveries },
	CategoryProgress:   func(p Preferences) bool { return p.Progress },
	CategoryDeadlines:  func(p Preferences) bool { return p.Deadlines },
}

// CategoryOf returns the preference category of t.
// The second value is false for types that no category switch can mute.
func CategoryOf(t Type) (Category, bool) {
	c, ok := typeCategories[t]
	return c, ok
}

// AllowsCategory reports whether the category switch for t is on.
// Uncategorised types are always allowed.
func (p Preferences) AllowsCategory(t Type) bool {
	c, ok := CategoryOf(t)
	if !ok {
		return true
	}
	return categoryPolicy[c](p)
}
