package polygon

import (
	"fmt"
	"net/http"
)

// FetchError is returned for any failed provider call: transport failure,
// non-2xx status, or an undecodable body.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Err        error
}

func newStatusError(endpoint string, statusCode int) *FetchError {
	return &FetchError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
	}
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("polygon %s: %d %s: %v", e.Endpoint, e.StatusCode, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("polygon %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("polygon %s: %d %s", e.Endpoint, e.StatusCode, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
