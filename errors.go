package valuto

import "errors"

var (
	// ErrMissingAPIKey means the openexchangerates.org credential is not
	// configured. Detected before any network I/O.
	ErrMissingAPIKey = errors.New("an API key is needed from OpenExchangeRates.org to continue")

	// ErrCurrencyNotFound means a caller supplied a code absent from the
	// snapshot where no fallback is defined.
	ErrCurrencyNotFound = errors.New("currency code is not present in the snapshot")

	// ErrConversionRate means a conversion hit a record with a zero rate.
	ErrConversionRate = errors.New("can not convert")

	// ErrUnknownProvider means the requested provider kind is not wired.
	ErrUnknownProvider = errors.New("unknown provider kind")
)
