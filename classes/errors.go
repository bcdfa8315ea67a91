package classes

import "errors"

// ErrClassCount means a negative number of classes was requested.
var ErrClassCount = errors.New("number of classes must not be negative")
