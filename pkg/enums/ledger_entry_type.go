package enums

import "fmt"

// LedgerEntryType maps to the ledger_entry_type_enum enum in Postgres.
type LedgerEntryType string

const (
	LedgerEntryTypeTopUp       LedgerEntryType = "top_up"
	LedgerEntryTypeConsumption LedgerEntryType = "consumption"
	LedgerEntryTypeBooking     LedgerEntryType = "booking"
	LedgerEntryTypeAdjustment  LedgerEntryType = "adjustment"
)

var validLedgerEntryTypes = []LedgerEntryType{
	LedgerEntryTypeTopUp,
	LedgerEntryTypeConsumption,
	LedgerEntryTypeBooking,
	LedgerEntryTypeAdjustment,
}

// IsValid reports whether the value matches the canonical ledger entry enum.
func (t LedgerEntryType) IsValid() bool {
	for _, candidate := range validLedgerEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether entries of this type feed the revenue
// aggregate on the admin dashboard.
func (t LedgerEntryType) CountsAsRevenue() bool {
	return t == LedgerEntryTypeConsumption || t == LedgerEntryTypeBooking
}

// ParseLedgerEntryType converts raw input into LedgerEntryType.
func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	for _, candidate := range validLedgerEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry type %q", value)
}
