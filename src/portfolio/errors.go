package portfolio

import "fmt"

var (
	ErrInsufficientFunds     = fmt.Errorf("insufficient funds")
	ErrPositionLimitExceeded = fmt.Errorf("position size exceeds maximum notional")
	ErrNoPositionFound       = fmt.Errorf("no position found")
	ErrInvalidQuantity       = fmt.Errorf("invalid quantity: must be strictly positive")
)
