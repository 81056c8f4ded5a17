package provider

import (
	"errors"
	"fmt"
)

// ErrMissingPivotCurrency is returned by Normalize when a pivoted batch does
// not contain the base currency, leaving nothing to re-pivot against.
var ErrMissingPivotCurrency = errors.New("pivoted rates do not include the base currency")

// ParseError reports a response body that did not match the provider's
// expected shape. It aborts the whole sync with no records written.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse response: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProviderError carries an error the provider itself reported inside a
// well-formed response, e.g. {"error":true,"description":"invalid base"}.
type ProviderError struct {
	Kind        Kind
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider reported: %s", e.Kind, e.Description)
}
