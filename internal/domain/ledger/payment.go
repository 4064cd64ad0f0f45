package ledger

import "ledgerpos/internal/core/types"

// PaymentType classifies a sale or purchase by whether a balance was opened.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "CASH"
	PaymentTypeCredit PaymentType = "CREDIT"
)

// PaymentTypeFor returns CREDIT when creditAmount is positive.
func PaymentTypeFor(creditAmount types.Money) PaymentType {
	if creditAmount.IsPositive() {
		return PaymentTypeCredit
	}
	return PaymentTypeCash
}

// PaymentMethod is the tender used for money that changed hands.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodMomo PaymentMethod = "MOMO"
	MethodBank PaymentMethod = "BANK"
)

// PaymentMethods lists every method in display order.
var PaymentMethods = []PaymentMethod{MethodCash, MethodMomo, MethodBank}

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodMomo, MethodBank:
		return true
	}
	return false
}

// OrDefault returns CASH for an empty method.
func (m PaymentMethod) OrDefault() PaymentMethod {
	if m == "" {
		return MethodCash
	}
	return m
}

// ReturnType decides how a return affects the counterparty balance.
type ReturnType string

const (
	// ReturnCash decrements the balance, clamped at zero.
	ReturnCash ReturnType = "CASH"
	// ReturnCredit decrements the balance without a floor.
	ReturnCredit ReturnType = "CREDIT"
	// ReturnExchange moves stock only.
	ReturnExchange ReturnType = "EXCHANGE"
)

// Valid reports whether t is a known return type.
func (t ReturnType) Valid() bool {
	switch t {
	case ReturnCash, ReturnCredit, ReturnExchange:
		return true
	}
	return false
}

// ApplyReturnToBalance applies a return of amount to current according to typ.
func ApplyReturnToBalance(typ ReturnType, current, amount types.Money) (next, applied types.Money) {
	switch typ {
	case ReturnCash:
		return DecreaseBalanceClamped(current, amount)
	case ReturnCredit:
		return DecreaseBalanceUnclamped(current, amount)
	default:
		return current, types.Zero()
	}
}
