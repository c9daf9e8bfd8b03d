package core

import "errors"

// ErrOutOfRange is returned when an enumerated parameter is outside its table.
// It is always wrapped with the name of the offending parameter.
var ErrOutOfRange = errors.New("value out of range")
