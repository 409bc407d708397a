package enums

import "fmt"

// ReserveAction selects how a reserved-stock adjustment mutates a stock level.
type ReserveAction string

const (
	ReserveActionIncrease     ReserveAction = "INCREASE"
	ReserveActionDecrease     ReserveAction = "DECREASE"
	ReserveActionUnreserveAll ReserveAction = "UNRESERVE_ALL"
)

var validReserveActions = []ReserveAction{
	ReserveActionIncrease,
	ReserveActionDecrease,
	ReserveActionUnreserveAll,
}

// String implements fmt.Stringer.
func (a ReserveAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ReserveAction.
func (a ReserveAction) IsValid() bool {
	for _, candidate := range validReserveActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseReserveAction converts raw input into a ReserveAction.
func ParseReserveAction(value string) (ReserveAction, error) {
	for _, candidate := range validReserveActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reserve action %q", value)
}
