package enums

import "fmt"

// TransactionType enumerates every stock-affecting movement the ledger records.
type TransactionType string

const (
	TransactionTypePurchase      TransactionType = "PURCHASE"
	TransactionTypeSale          TransactionType = "SALE"
	TransactionTypeTransfer      TransactionType = "TRANSFER"
	TransactionTypeAllocation    TransactionType = "ALLOCATION"
	TransactionTypeReturn        TransactionType = "RETURN"
	TransactionTypeConsumption   TransactionType = "CONSUMPTION"
	TransactionTypeDamage        TransactionType = "DAMAGE"
	TransactionTypeMaintenance   TransactionType = "MAINTENANCE"
	TransactionTypeAdjustmentIn  TransactionType = "ADJUSTMENT_IN"
	TransactionTypeAdjustmentOut TransactionType = "ADJUSTMENT_OUT"
)

var validTransactionTypes = []TransactionType{
	TransactionTypePurchase,
	TransactionTypeSale,
	TransactionTypeTransfer,
	TransactionTypeAllocation,
	TransactionTypeReturn,
	TransactionTypeConsumption,
	TransactionTypeDamage,
	TransactionTypeMaintenance,
	TransactionTypeAdjustmentIn,
	TransactionTypeAdjustmentOut,
}

var transactionTypePrefixes = map[TransactionType]string{
	TransactionTypePurchase:      "PUR",
	TransactionTypeSale:          "SAL",
	TransactionTypeTransfer:      "TRF",
	TransactionTypeAllocation:    "ALC",
	TransactionTypeReturn:        "RET",
	TransactionTypeConsumption:   "CON",
	TransactionTypeDamage:        "DMG",
	TransactionTypeMaintenance:   "MNT",
	TransactionTypeAdjustmentIn:  "ADI",
	TransactionTypeAdjustmentOut: "ADO",
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ReferencePrefix returns the 3-letter code embedded in transaction references.
func (t TransactionType) ReferencePrefix() string {
	if prefix, ok := transactionTypePrefixes[t]; ok {
		return prefix
	}
	return "TXN"
}

// Inbound reports whether the type adds stock to a destination location.
func (t TransactionType) Inbound() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeReturn, TransactionTypeAdjustmentIn:
		return true
	}
	return false
}

// Outbound reports whether the type removes stock from a source location.
func (t TransactionType) Outbound() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeConsumption, TransactionTypeDamage,
		TransactionTypeMaintenance, TransactionTypeAdjustmentOut:
		return true
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
