package domain

import (
	"fmt"
	"strings"
)

// Category is one of the recognized business categories.
type Category string

// AllowedCategories lists the canonical categories in display order.
var AllowedCategories = []Category{
	"restaurant", "cafe", "bar", "bakery", "retail", "salon", "spa", "hotel",
	"clinic", "dental", "fitness", "automotive", "education", "services", "other",
}

var allowedCategorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(AllowedCategories))
	for _, c := range AllowedCategories {
		set[c] = struct{}{}
	}
	return set
}()

// NewCategory canonicalises aliases and rejects anything outside the recognized set.
// An empty input is allowed and means "no category".
func NewCategory(value string) (Category, error) {
	code := canonicalCategoryCode(value)
	if code == "" {
		return "", nil
	}
	if _, ok := allowedCategorySet[Category(code)]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, strings.TrimSpace(value))
	}
	return Category(code), nil
}

func (c Category) String() string {
	return string(c)
}

func canonicalCategoryCode(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	switch lower {
	case "restaurants", "diner", "food":
		return "restaurant"
	case "coffee", "coffee_shop", "coffee-shop", "café":
		return "cafe"
	case "pub", "bars":
		return "bar"
	case "shop", "store", "boutique":
		return "retail"
	case "barber", "hair", "beauty":
		return "salon"
	case "gym":
		return "fitness"
	case "dentist":
		return "dental"
	case "medical", "doctor":
		return "clinic"
	case "garage", "car", "auto":
		return "automotive"
	case "service":
		return "services"
	}
	return lower
}
