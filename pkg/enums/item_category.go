package enums

import "fmt"

// ItemCategory represents the canonical categories carried by the item catalog.
type ItemCategory string

const (
	ItemCategorySolarPanel  ItemCategory = "solar_panel"
	ItemCategoryInverter    ItemCategory = "inverter"
	ItemCategoryBattery     ItemCategory = "battery"
	ItemCategoryMounting    ItemCategory = "mounting"
	ItemCategoryCabling     ItemCategory = "cabling"
	ItemCategoryBreaker     ItemCategory = "breaker"
	ItemCategoryMeter       ItemCategory = "meter"
	ItemCategoryTool        ItemCategory = "tool"
	ItemCategoryConsumable  ItemCategory = "consumable"
	ItemCategorySafetyGear  ItemCategory = "safety_gear"
	ItemCategoryServicePart ItemCategory = "service_part"
	ItemCategoryOther       ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategorySolarPanel,
	ItemCategoryInverter,
	ItemCategoryBattery,
	ItemCategoryMounting,
	ItemCategoryCabling,
	ItemCategoryBreaker,
	ItemCategoryMeter,
	ItemCategoryTool,
	ItemCategoryConsumable,
	ItemCategorySafetyGear,
	ItemCategoryServicePart,
	ItemCategoryOther,
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
