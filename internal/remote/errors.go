package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Sentinel errors classifying why a remote call failed. Callers that only
// care about "remote unavailable" can match any of them with Unavailable.
var (
	ErrTimeout   = errors.New("remote timeout")
	ErrOffline   = errors.New("remote offline")
	ErrRefused   = errors.New("remote connection refused")
	ErrMalformed = errors.New("malformed remote response")
)

// StatusError is returned when the remote answered with a non-success
// HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote status %d", e.Code)
}

// ClientError reports whether the status is a 4xx.
func (e *StatusError) ClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// ServerError reports whether the status is a 5xx.
func (e *StatusError) ServerError() bool {
	return e.Code >= 500
}

// Unavailable reports whether err belongs to the remote failure taxonomy.
// Every error produced by this package satisfies it.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrOffline) ||
		errors.Is(err, ErrRefused) ||
		errors.Is(err, ErrMalformed) ||
		errors.As(err, &statusErr)
}

// classify maps a transport-level failure onto the sentinel taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %v", ErrRefused, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrOffline, err)
	}

	return fmt.Errorf("%w: %v", ErrOffline, err)
}
