package arena

import "errors"

var (
	ErrExhausted       = errors.New("arena: scratch arena exhausted")
	ErrInvalidSize     = errors.New("arena: allocation size must not be negative")
	ErrUnknownStrategy = errors.New("arena: unknown allocation strategy")
)
