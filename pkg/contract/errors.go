package contract

import "errors"

var (
	// ErrInvalidDocument is returned when the OpenAPI document cannot be used
	// as an intake contract.
	ErrInvalidDocument = errors.New("contract: invalid document")
	// ErrFieldDrift is returned by CheckFields when the contract and the form
	// disagree on the field set.
	ErrFieldDrift = errors.New("contract: field drift")
)
