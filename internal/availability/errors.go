package availability

import "errors"

var (
	ErrEmptySelection = errors.New("no asset selected")
	ErrKindMismatch   = errors.New("asset kind does not match the selection")
	ErrNotSelectable  = errors.New("asset is not available")
	ErrDuplicate      = errors.New("asset already selected")
	ErrNotSelected    = errors.New("asset not selected")
	ErrQuantity       = errors.New("requested quantity exceeds available amount")
	ErrUnknownKind    = errors.New("unknown asset kind")
)
