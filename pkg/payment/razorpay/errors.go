package razorpay

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("razorpay credentials are not configured")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
)

// APIError is a non-2xx response from the Razorpay API.
type APIError struct {
	StatusCode  int
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay api error (status %d): %s - %s", e.StatusCode, e.Code, e.Description)
}
