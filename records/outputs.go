package records

import (
	"fmt"

	"github.com/asaidimu/go-reshape/utils"
)

// Typed converts a run's assembled mapping into its typed output struct.
// Conversion is only meaningful after validation passed; a result that
// failed validation may be missing required fields.
func Typed[T any](rr *RunResult) (T, error) {
	var zero T
	if rr == nil {
		return zero, fmt.Errorf("cannot convert a nil run result")
	}
	out, err := utils.MapToStruct[T](rr.Result)
	if err != nil {
		return zero, fmt.Errorf("record %q: %w", rr.Record, err)
	}
	return out, nil
}

// AsIdentity converts the result of an identity run.
func (rr *RunResult) AsIdentity() (IdentityOutput, error) {
	return Typed[IdentityOutput](rr)
}

// AsVisa converts the result of a visa run.
func (rr *RunResult) AsVisa() (VisaOutput, error) {
	return Typed[VisaOutput](rr)
}

// AsAddressEmployment converts the result of an address/employment run.
func (rr *RunResult) AsAddressEmployment() (AddressEmploymentOutput, error) {
	return Typed[AddressEmploymentOutput](rr)
}

// AsCustomerProfile converts the result of a customer profile run.
func (rr *RunResult) AsCustomerProfile() (CustomerProfileOutput, error) {
	return Typed[CustomerProfileOutput](rr)
}
