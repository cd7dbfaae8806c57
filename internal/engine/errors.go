package engine

import "errors"

// Rule-violation categories. Every rejected command wraps exactly one
// of these so callers can classify without string matching.
var (
	ErrPhase     = errors.New("command not legal in current phase")
	ErrOwnership = errors.New("ownership violation")
	ErrFunds     = errors.New("insufficient funds")
	ErrCharge    = errors.New("no ability charge remaining")
	ErrTarget    = errors.New("invalid target")
	ErrStructure = errors.New("structural violation")
)
