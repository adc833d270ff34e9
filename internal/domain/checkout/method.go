// internal/domain/checkout/method.go
package checkout

import "errors"

// ErrUnknownMethod is returned when a payment method id does not exist
var ErrUnknownMethod = errors.New("unknown payment method")

// Method is a way to pay. A nil Balance means the method is unlimited
// (cash); a finite balance is checked against the order grand total on
// every attempt and is never decremented.
type Method struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Balance *int64 `json:"balance,omitempty"`
}

// IsUnlimited reports whether the method has no balance limit
func (m Method) IsUnlimited() bool {
	return m.Balance == nil
}

// CanCover reports whether the method can pay the given amount
func (m Method) CanCover(amount int64) bool {
	return m.Balance == nil || amount <= *m.Balance
}

const (
	// MethodCash is the unlimited default and fallback method
	MethodCash  = "tunai"
	MethodOVO   = "ovo"
	MethodGoPay = "gopay"
)

func balance(v int64) *int64 { return &v }

// methods is the fixed method set. Not user-editable; wallet balances
// are static per attempt (no persistent ledger).
var methods = []Method{
	{ID: MethodCash, Label: "Tunai (Cash)", Icon: "cash-outline"},
	{ID: MethodOVO, Label: "OVO", Icon: "wallet-outline", Balance: balance(25000)},
	{ID: MethodGoPay, Label: "GoPay", Icon: "card-outline", Balance: balance(500000)},
}

// Methods returns the available payment methods
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// MethodByID looks up a payment method by id
func MethodByID(id string) (Method, error) {
	for _, m := range methods {
		if m.ID == id {
			return m, nil
		}
	}
	return Method{}, ErrUnknownMethod
}

// DefaultMethod returns the unlimited-balance method selected by default
func DefaultMethod() Method {
	m, _ := MethodByID(MethodCash)
	return m
}
