package gateway

import (
	"strconv"
	"strings"
)

// ErrorCodes maps GovTalk error numbers to failure kinds. The gateway does
// not publish these codes; the defaults are the ones observed in practice.
type ErrorCodes struct {
	Authentication     int `yaml:"authentication"`
	AccountsCorruption int `yaml:"accounts-corruption"`
	Validation         int `yaml:"validation"`
}

// DefaultErrorCodes returns the observed gateway error numbers
func DefaultErrorCodes() ErrorCodes {
	return ErrorCodes{
		Authentication:     502,
		AccountsCorruption: 9999,
		Validation:         100,
	}
}

// Kind returns the failure kind for a GovTalk error number
func (c ErrorCodes) Kind(code int) Kind {
	switch code {
	case c.Authentication:
		return KindAuthentication
	case c.AccountsCorruption:
		return KindAccountsCorruption
	case c.Validation:
		return KindValidation
	default:
		return KindGeneric
	}
}

// Classify inspects a parsed response for GovTalkDetails/GovTalkErrors/Error.
// It returns nil when the response carries no error, otherwise an *Error
// built from the first reported error only.
func (c ErrorCodes) Classify(resp *Response) error {
	if resp == nil {
		return nil
	}

	first := findPath(resp.Root(), "GovTalkDetails", "GovTalkErrors", "Error")
	if first == nil {
		return nil
	}

	var text string
	if el := first.SelectElement("Text"); el != nil {
		text = strings.TrimSpace(el.Text())
	}

	code := 0
	kind := KindGeneric
	if el := first.SelectElement("Number"); el != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(el.Text())); err == nil {
			code = n
			kind = c.Kind(n)
		}
	}

	return &Error{Kind: kind, Code: code, Message: text}
}
