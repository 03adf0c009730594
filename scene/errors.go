package scene

import "errors"

var (
	ErrUnsupportedScheme = errors.New("scene: unsupported resource scheme")
	ErrFetch             = errors.New("scene: could not fetch resource")
	ErrSyntax            = errors.New("scene: syntax error")
	ErrUnknownObject     = errors.New("scene: reference to undefined object")
	ErrDuplicateObject   = errors.New("scene: duplicate object name")
	ErrObjectKind        = errors.New("scene: object must define exactly one of sphere, box, hull, mesh or plane")
)
