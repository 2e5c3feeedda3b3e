package grid

import "errors"

var (
	ErrEmptyGrid         = errors.New("initial grid is empty")
	ErrRaggedGrid        = errors.New("initial grid rows have unequal length")
	ErrOutOfRange        = errors.New("coordinate outside board bounds")
	ErrDimensionMismatch = errors.New("replacement grid dimensions do not match board")
)
