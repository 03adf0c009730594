package contact

import "errors"

var (
	ErrBufferFull      = errors.New("contact: contact buffer full")
	ErrEventBufferFull = errors.New("contact: event buffer full")
)
