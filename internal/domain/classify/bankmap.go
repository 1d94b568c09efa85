package classify

import "strings"

// bankMapping translates one bank-native category label family into an
// application category. Needles are matched case-insensitively as substrings,
// in slice order.
type bankMapping struct {
	needles  []string
	category string
}

// bankCategoryMap covers the label vocabulary of the bank's statement export.
// Order matters: the first mapping with a matching needle wins.
var bankCategoryMap = []bankMapping{
	{[]string{"airline", "hotel", "travel"}, Travel},
	{[]string{"mobile", "telecom", "internet"}, Utilities},
	{[]string{"education"}, BusinessSchool},
	{[]string{"merchandise", "supplies"}, HouseholdGoods},
	{[]string{"groceries"}, Groceries},
	{[]string{"restaurant"}, EatingOut},
	{[]string{"gas"}, Gas},
	{[]string{"health", "medical"}, Health},
	{[]string{"entertainment"}, FunMisc},
	{[]string{"gift"}, Gifts},
	{[]string{"fees", "adjustments"}, Bills},
}

// MapBankCategory resolves a bank-native category label to an application
// category. The second return is false when the label is unknown.
func MapBankCategory(bankLabel string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(bankLabel))
	if lowered == "" {
		return "", false
	}

	for _, m := range bankCategoryMap {
		for _, needle := range m.needles {
			if strings.Contains(lowered, needle) {
				return m.category, true
			}
		}
	}
	return "", false
}

// Resolve applies the full category resolution order for bank-layout rows:
// bank-native label first, then the keyword classifier on the description,
// then Uncategorized.
func (c *Classifier) Resolve(description, bankLabel string) string {
	if category, ok := MapBankCategory(bankLabel); ok {
		return category
	}
	return c.Categorize(description)
}
