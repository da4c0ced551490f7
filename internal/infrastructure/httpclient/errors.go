package httpclient

import (
	"errors"
	"fmt"
)

// ErrUnexpectedContentType marks downloads whose response was HTML where a
// binary was requested.
var ErrUnexpectedContentType = errors.New("unexpected content type")

// FetchError is a network, HTTP, or content-type failure after retries are
// exhausted. Status is zero when no response was obtained.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
