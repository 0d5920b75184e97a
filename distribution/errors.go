package distribution

import "errors"

// ErrInvalidParameter is returned when a distribution is constructed
// with parameter nodes whose number, type or value is incompatible with
// the distribution family
var ErrInvalidParameter = errors.New("invalid distribution parameter")

// ErrUnknownKind is returned by New for a Kind with no implementation
var ErrUnknownKind = errors.New("unknown distribution kind")
