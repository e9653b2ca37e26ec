package core

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryBoth    CategoryType = "both"
)

// FallbackCategoryID is the catalog entry used when an id is unknown.
const FallbackCategoryID = "10"

type (
	CategoryType string

	// Category is one entry of the fixed catalog. The catalog is not
	// persisted and not user-editable.
	Category struct {
		ID   string
		Name string
		Icon string
		Type CategoryType
	}
)

// Categories is the fixed catalog: nine typed entries plus the "Outros"
// fallback, applicable to either transaction type.
var Categories = []Category{
	{ID: "1", Name: "Alimentação", Icon: "🍔", Type: CategoryExpense},
	{ID: "2", Name: "Transporte", Icon: "🚗", Type: CategoryExpense},
	{ID: "3", Name: "Moradia", Icon: "🏠", Type: CategoryExpense},
	{ID: "4", Name: "Saúde", Icon: "🏥", Type: CategoryExpense},
	{ID: "5", Name: "Educação", Icon: "📚", Type: CategoryExpense},
	{ID: "6", Name: "Lazer", Icon: "🎮", Type: CategoryExpense},
	{ID: "7", Name: "Salário", Icon: "💰", Type: CategoryIncome},
	{ID: "8", Name: "Freelance", Icon: "💼", Type: CategoryIncome},
	{ID: "9", Name: "Investimentos", Icon: "📈", Type: CategoryIncome},
	{ID: "10", Name: "Outros", Icon: "📦", Type: CategoryBoth},
}

// CategoryByID resolves a catalog entry, falling back to "Outros" for
// unknown ids.
func CategoryByID(id string) Category {
	fallback := Categories[len(Categories)-1]
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
		if c.ID == FallbackCategoryID {
			fallback = c
		}
	}
	return fallback
}

// AppliesTo reports whether the category may be used with the given
// transaction type. The store does not enforce this; it is a form-level
// check.
func (c Category) AppliesTo(t TransactionType) bool {
	switch c.Type {
	case CategoryBoth:
		return true
	case CategoryIncome:
		return t == Income
	case CategoryExpense:
		return t == Expense
	default:
		return false
	}
}
