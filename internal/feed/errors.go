package feed

import (
	"errors"
	"fmt"
)

// FetchError describes a failed document fetch or decode.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("feed %s: %v (status=%d)", e.Source, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("feed %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
