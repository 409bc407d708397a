package enums

import "fmt"

// ItemUnit is the unit of measure an item is stocked in.
type ItemUnit string

const (
	ItemUnitPiece ItemUnit = "piece"
	ItemUnitMeter ItemUnit = "meter"
	ItemUnitRoll  ItemUnit = "roll"
	ItemUnitBox   ItemUnit = "box"
	ItemUnitKg    ItemUnit = "kg"
	ItemUnitLiter ItemUnit = "liter"
	ItemUnitSet   ItemUnit = "set"
	ItemUnitPair  ItemUnit = "pair"
)

var validItemUnits = []ItemUnit{
	ItemUnitPiece,
	ItemUnitMeter,
	ItemUnitRoll,
	ItemUnitBox,
	ItemUnitKg,
	ItemUnitLiter,
	ItemUnitSet,
	ItemUnitPair,
}

// String implements fmt.Stringer.
func (u ItemUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known ItemUnit.
func (u ItemUnit) IsValid() bool {
	for _, candidate := range validItemUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseItemUnit converts raw input into an ItemUnit.
func ParseItemUnit(value string) (ItemUnit, error) {
	for _, candidate := range validItemUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item unit %q", value)
}
