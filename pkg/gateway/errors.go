// Package gateway implements the XML Gateway transport and response classification.
package gateway

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"strings"
)

// Kind is the failure class of a gateway call
type Kind int

const (
	KindGeneric            Kind = iota // Unclassified failure
	KindAuthentication                 // Presenter or company credentials rejected
	KindAccountsCorruption             // Submitted accounts could not be processed
	KindValidation                     // Request failed validation
	KindRequest                        // Connection could not be completed
	KindPrivacy                        // TLS or certificate failure
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "GenericFailure"
	case KindAuthentication:
		return "AuthenticationFailure"
	case KindAccountsCorruption:
		return "SuspectedAccountsCorruption"
	case KindValidation:
		return "SuspectedValidationFailure"
	case KindRequest:
		return "RequestFailure"
	case KindPrivacy:
		return "PrivacyFailure"
	default:
		return "UnknownFailure"
	}
}

// Error is a classified gateway failure
type Error struct {
	Kind Kind
	// Code is the GovTalk error number, 0 for transport failures
	Code int
	// StatusCode is the HTTP status for non-200 responses
	StatusCode int
	// Message is the GovTalk error text or the transport error text
	Message string
	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrGeneric                     = &Error{Kind: KindGeneric, Message: "gateway failure"}
	ErrAuthenticationFailure       = &Error{Kind: KindAuthentication, Message: "authentication failure"}
	ErrSuspectedAccountsCorruption = &Error{Kind: KindAccountsCorruption, Message: "suspected accounts corruption"}
	ErrSuspectedValidationFailure  = &Error{Kind: KindValidation, Message: "suspected validation failure"}
	ErrRequestFailure              = &Error{Kind: KindRequest, Message: "request failure"}
	ErrPrivacyFailure              = &Error{Kind: KindPrivacy, Message: "privacy failure"}

	// ErrMalformedResponse is wrapped when the response body is not a GovTalk XML document
	ErrMalformedResponse = errors.New("malformed gateway response")
)

// transportError maps a failed HTTP exchange to KindPrivacy or KindRequest
func transportError(err error) *Error {
	kind := KindRequest
	if isTLSError(err) {
		kind = KindPrivacy
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func isTLSError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	// net/http replaces the record header error for plain HTTP peers
	if strings.Contains(err.Error(), "server gave HTTP response to HTTPS client") {
		return true
	}
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
