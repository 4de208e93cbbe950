// Package errors defines the error kinds returned by the driver. Every
// failure leaving the driver is one of these kinds so that callers can decide
// whether to retry, surface or give up.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// New returns a plain error without a kind.
func New(message string) error {
	return errors.New(message)
}

// Wrapf annotates err with a message while keeping its kind.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// Cause returns the innermost error of a pkg/errors chain.
func Cause(err error) error {
	return pkgerrors.Cause(err)
}

/////////////////////////////////////////////////////////////////////////////
// invalidInputError
/////////////////////////////////////////////////////////////////////////////

type invalidInputError struct {
	message string
}

func (e *invalidInputError) Error() string { return e.message }

//InvalidInputError is returned when caller supplied data violates a precondition.
func InvalidInputError(format string, args ...interface{}) error {
	return &invalidInputError{message: fmt.Sprintf(format, args...)}
}

func IsInvalidInputError(err error) bool {
	if err == nil {
		return false
	}
	var e *invalidInputError
	return errors.As(err, &e)
}

/////////////////////////////////////////////////////////////////////////////
// notFoundError
/////////////////////////////////////////////////////////////////////////////

type notFoundError struct {
	inner   error
	message string
}

func (e *notFoundError) Error() string {
	if e.inner == nil {
		return e.message
	}
	return fmt.Sprintf("%s; %s", e.message, e.inner.Error())
}

func (e *notFoundError) Unwrap() error { return e.inner }

//NotFoundError is returned when a referenced array object does not exist.
func NotFoundError(format string, args ...interface{}) error {
	return &notFoundError{message: fmt.Sprintf(format, args...)}
}

func WrapWithNotFoundError(err error, format string, args ...interface{}) error {
	return &notFoundError{inner: err, message: fmt.Sprintf(format, args...)}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var e *notFoundError
	return errors.As(err, &e)
}

/////////////////////////////////////////////////////////////////////////////
// busyError
/////////////////////////////////////////////////////////////////////////////

type busyError struct {
	inner   error
	message string
}

func (e *busyError) Error() string {
	if e.inner == nil {
		return e.message
	}
	return fmt.Sprintf("%s; %s", e.message, e.inner.Error())
}

func (e *busyError) Unwrap() error { return e.inner }

//BusyError is returned when a deletion is blocked by dependent objects.
func BusyError(format string, args ...interface{}) error {
	return &busyError{message: fmt.Sprintf(format, args...)}
}

func WrapWithBusyError(err error, format string, args ...interface{}) error {
	return &busyError{inner: err, message: fmt.Sprintf(format, args...)}
}

func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	var e *busyError
	return errors.As(err, &e)
}

/////////////////////////////////////////////////////////////////////////////
// notSupportedError
/////////////////////////////////////////////////////////////////////////////

type notSupportedError struct {
	message string
}

func (e *notSupportedError) Error() string { return e.message }

func NotSupportedError(format string, args ...interface{}) error {
	return &notSupportedError{message: fmt.Sprintf(format, args...)}
}

func IsNotSupportedError(err error) bool {
	if err == nil {
		return false
	}
	var e *notSupportedError
	return errors.As(err, &e)
}

/////////////////////////////////////////////////////////////////////////////
// DiscoveryTimeout
/////////////////////////////////////////////////////////////////////////////

//DiscoveryTimeout is returned when a bounded poll ran out of time without
//observing the state it waited for.
type DiscoveryTimeout struct {
	//Host identifies what was polled, a host name or an initiator IQN.
	Host string
	//LastMetadata is the metadata seen on the last poll attempt, may be nil.
	LastMetadata map[string]string
	Waited       string
}

func (e *DiscoveryTimeout) Error() string {
	keys := make([]string, 0, len(e.LastMetadata))
	for k := range e.LastMetadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, e.LastMetadata[k]))
	}

	return fmt.Sprintf("discovery for %s timed out after %s, last metadata {%s}",
		e.Host, e.Waited, strings.Join(pairs, ", "))
}

func DiscoveryTimeoutError(host string, waited string, lastMetadata map[string]string) error {
	return &DiscoveryTimeout{Host: host, Waited: waited, LastMetadata: lastMetadata}
}

func IsDiscoveryTimeoutError(err error) bool {
	_, ok := AsDiscoveryTimeout(err)
	return ok
}

func AsDiscoveryTimeout(err error) (*DiscoveryTimeout, bool) {
	if err == nil {
		return nil, false
	}
	var e *DiscoveryTimeout
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

/////////////////////////////////////////////////////////////////////////////
// VendorAPI
/////////////////////////////////////////////////////////////////////////////

//VendorAPI is any array API failure that is not one of the other kinds.
type VendorAPI struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	inner      error
}

func (e *VendorAPI) Error() string {
	msg := fmt.Sprintf("array API %s failed", e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s, %s: %s", msg, e.Code, e.Message)
	} else if e.Message != "" {
		msg = fmt.Sprintf("%s, %s", msg, e.Message)
	}
	if e.inner != nil {
		msg = fmt.Sprintf("%s; %s", msg, e.inner.Error())
	}
	return msg
}

func (e *VendorAPI) Unwrap() error { return e.inner }

func VendorAPIError(op string, statusCode int, code, message string) error {
	return &VendorAPI{Op: op, StatusCode: statusCode, Code: code, Message: message}
}

func IsVendorAPIError(err error) bool {
	_, ok := AsVendorAPI(err)
	return ok
}

func AsVendorAPI(err error) (*VendorAPI, bool) {
	if err == nil {
		return nil, false
	}
	var e *VendorAPI
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// APIStatus is implemented by transport errors that carry an HTTP status and
// an array error code.
type APIStatus interface {
	error
	HTTPStatus() int
	ErrorCode() string
	ErrorMessage() string
}

var busyCodes = map[string]bool{
	"HOST_NOT_EMPTY":      true,
	"HOST_HAS_LUNS":       true,
	"VOLUME_HAS_CHILDREN": true,
}

//WrapVendorError translates an error returned by an array API call into the
//driver error kinds. It is applied to every array API invocation.
func WrapVendorError(op string, err error) error {
	if err == nil {
		return nil
	}

	var status APIStatus
	if !errors.As(err, &status) {
		return &VendorAPI{Op: op, inner: err}
	}

	code := status.ErrorCode()
	switch {
	case status.HTTPStatus() == 404 || strings.HasSuffix(code, "_NOT_FOUND"):
		return WrapWithNotFoundError(err, "%s", op)
	case busyCodes[code]:
		return WrapWithBusyError(err, "%s", op)
	}

	return &VendorAPI{
		Op:         op,
		StatusCode: status.HTTPStatus(),
		Code:       code,
		Message:    status.ErrorMessage(),
	}
}
