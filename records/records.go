// Package records defines the concrete domain record shapes extracted from
// identity, visa, and address documents, and the runner that drives their
// field bindings through assembly and validation.
package records

import (
	"github.com/asaidimu/go-reshape/core/schema"
	"github.com/asaidimu/go-reshape/core/transform"
)

// Record type names accepted by the runner.
const (
	RecordIdentity          = "identity"
	RecordVisa              = "visa"
	RecordAddressEmployment = "address_employment"
	RecordCustomerProfile   = "customer_profile"
)

// RecordType pairs a named binding set with the schema its output is
// validated against. Binding sets are built once and shared; they carry
// compiled expressions after the runner initializes.
type RecordType struct {
	Name     string
	Bindings []transform.FieldBinding
	Schema   *schema.Definition
}

// IdentityOutput is the typed identity record.
type IdentityOutput struct {
	FullName       string `json:"full_name"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
}

// VisaOutput is the typed visa request record.
type VisaOutput struct {
	VisaType      string `json:"visa_type"`
	FromCountry   string `json:"from_country"`
	ToCountry     string `json:"to_country"`
	DepartureDate string `json:"departure_date"`
	ArrivalDate   string `json:"arrival_date"`
}

// AddressEmploymentOutput is the typed address and employment record.
type AddressEmploymentOutput struct {
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Occupation   string `json:"occupation"`
	EmployerName string `json:"employer_name"`
}

// Registration is one code-lookup result inside a customer profile.
type Registration struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
	Name    string `json:"name"`
}

// CustomerProfileOutput is the typed customer profile record.
type CustomerProfileOutput struct {
	DisplayName   string         `json:"display_name"`
	CustomerName  string         `json:"customer_name"`
	Gender        string         `json:"gender"`
	Country       string         `json:"country"`
	Registrations []Registration `json:"registrations"`
}

// DefaultRecordTypes builds the standard record set. Expressions are
// constructed here and compiled by the runner before any document is
// processed.
func DefaultRecordTypes() map[string]*RecordType {
	return map[string]*RecordType{
		RecordIdentity:          identityRecord(),
		RecordVisa:              visaRecord(),
		RecordAddressEmployment: addressEmploymentRecord(),
		RecordCustomerProfile:   customerProfileRecord(),
	}
}

func identityRecord() *RecordType {
	return &RecordType{
		Name: RecordIdentity,
		Bindings: []transform.FieldBinding{
			{
				Field: "full_name",
				// Pipeline notation: each step feeds the next as its final
				// argument.
				Expression: transform.Call(transform.OpJoinParts,
					transform.Pipeline(
						transform.Query("$..first_name"),
						transform.Call(transform.OpSubstr, transform.Literal(0), transform.Literal(10)),
						transform.Call(transform.OpCapitalize),
					),
					transform.Literal(" "),
					transform.Pipeline(
						transform.Query("$..surname"),
						transform.Call(transform.OpCapitalize),
						transform.Call(transform.OpSubstr, transform.Literal(0), transform.Literal(7)),
					),
				),
			},
			{
				Field: "passport_number",
				Expression: transform.Pipeline(
					transform.Query("$..passport_number"),
					transform.Call(transform.OpSubstr, transform.Literal(0), transform.Literal(9)),
				),
			},
			{
				Field:      "nationality",
				Expression: transform.Query("$..nationality"),
			},
			{
				Field: "date_of_birth",
				Expression: transform.Pipeline(
					transform.Query("$..date_of_birth.$date"),
					transform.Call(transform.OpFormatDate),
				),
			},
		},
		Schema: &schema.Definition{
			Name: RecordIdentity,
			Fields: map[string]*schema.FieldDefinition{
				"full_name": {
					Name: "full_name", Type: schema.FieldTypeString, Required: true,
					Constraints: []schema.Constraint{
						{Name: "full_name_non_empty", Predicate: "nonEmpty", ErrorMessage: "full name must not be blank"},
						{Name: "full_name_min", Predicate: "minLength", Parameters: 3},
					},
				},
				"passport_number": {
					Name: "passport_number", Type: schema.FieldTypeString, Required: true,
					Constraints: []schema.Constraint{
						{Name: "passport_min", Predicate: "minLength", Parameters: 6},
						{Name: "passport_max", Predicate: "maxLength", Parameters: 9},
						{Name: "passport_alnum", Predicate: "alphanumeric", ErrorMessage: "passport number must be alphanumeric"},
					},
				},
				"nationality": {
					Name: "nationality", Type: schema.FieldTypeString, Required: true,
					Constraints: []schema.Constraint{
						{Name: "nationality_non_empty", Predicate: "nonEmpty"},
					},
				},
				"date_of_birth": {
					Name: "date_of_birth", Type: schema.FieldTypeString, Required: true,
					Constraints: []schema.Constraint{
						{Name: "dob_format", Predicate: "pattern", Parameters: `^\d{2}-[A-Z][a-z]{2}-\d{4}$`, ErrorMessage: "date of birth must be DD-Mon-YYYY"},
					},
				},
			},
		},
	}
}

func visaRecord() *RecordType {
	visaPath := "$.visa_request_information.visa_request."
	return &RecordType{
		Name: RecordVisa,
		Bindings: []transform.FieldBinding{
			{Field: "visa_type", Expression: transform.Query(visaPath + "visa_type")},
			{Field: "from_country", Expression: transform.Query(visaPath + "from_country_full_name")},
			{Field: "to_country", Expression: transform.Query(visaPath + "to_country_full_name")},
			{Field: "departure_date", Expression: transform.Query(visaPath + "departure_date_formatted")},
			{Field: "arrival_date", Expression: transform.Query(visaPath + "arrival_date_formatted")},
		},
		Schema: &schema.Definition{
			Name: RecordVisa,
			Fields: map[string]*schema.FieldDefinition{
				"visa_type":      {Name: "visa_type", Type: schema.FieldTypeString, Required: true},
				"from_country":   {Name: "from_country", Type: schema.FieldTypeString, Required: true},
				"to_country":     {Name: "to_country", Type: schema.FieldTypeString, Required: true},
				"departure_date": {Name: "departure_date", Type: schema.FieldTypeString, Required: true},
				"arrival_date":   {Name: "arrival_date", Type: schema.FieldTypeString, Required: true},
			},
		},
	}
}

func addressEmploymentRecord() *RecordType {
	addressPath := "$.residential_address.residential_address_card_v2."
	workPath := "$.work_address.work_details."
	return &RecordType{
		Name: RecordAddressEmployment,
		Bindings: []transform.FieldBinding{
			{Field: "city", Expression: transform.Query(addressPath + "city")},
			{Field: "state", Expression: transform.Query(addressPath + "state")},
			{Field: "country", Expression: transform.Query(addressPath + "country"), Default: "Unknown"},
			{Field: "occupation", Expression: transform.Query(workPath + "occupation")},
			{Field: "employer_name", Expression: transform.Query(workPath + "employer_name")},
		},
		Schema: &schema.Definition{
			Name: RecordAddressEmployment,
			Fields: map[string]*schema.FieldDefinition{
				"city":          {Name: "city", Type: schema.FieldTypeString, Required: true},
				"state":         {Name: "state", Type: schema.FieldTypeString, Required: true},
				"country":       {Name: "country", Type: schema.FieldTypeString, Required: true},
				"occupation":    {Name: "occupation", Type: schema.FieldTypeString, Required: true},
				"employer_name": {Name: "employer_name", Type: schema.FieldTypeString, Required: true},
			},
		},
	}
}

func customerProfileRecord() *RecordType {
	recordType := schema.FieldTypeRecord
	return &RecordType{
		Name: RecordCustomerProfile,
		Bindings: []transform.FieldBinding{
			{
				Field: "display_name",
				// Nested notation: equivalent to the pipeline form by
				// construction.
				Expression: transform.Call(transform.OpJoinParts,
					transform.Call(transform.OpCapitalize,
						transform.Call(transform.OpSubstr, transform.Literal(0), transform.Literal(10), transform.Query("$..first_name"))),
					transform.Literal(" "),
					transform.Call(transform.OpCapitalize,
						transform.Call(transform.OpSubstr, transform.Literal(0), transform.Literal(7), transform.Query("$..surname"))),
				),
			},
			{
				Field: "customer_name",
				Expression: transform.Call(transform.OpJoinParts,
					transform.Pipeline(transform.Query("$..first_name"), transform.Call(transform.OpCapitalize)),
					transform.Literal(" "),
					transform.Pipeline(transform.Query("$..surname"), transform.Call(transform.OpCapitalize)),
				),
			},
			{
				Field:      "gender",
				Expression: transform.Query("$..gender"),
			},
			{
				Field:      "country",
				Expression: transform.Query("$.country"),
				Default:    "Unknown",
			},
			{
				Field: "registrations",
				Expression: transform.Pipeline(
					transform.Query("$.registrations"),
					transform.Call(transform.OpCodeLookupAll),
				),
				Default: []any{},
			},
		},
		Schema: &schema.Definition{
			Name: RecordCustomerProfile,
			Fields: map[string]*schema.FieldDefinition{
				"display_name": {
					Name: "display_name", Type: schema.FieldTypeString, Required: true,
					Constraints: []schema.Constraint{
						{Name: "display_name_non_empty", Predicate: "nonEmpty"},
					},
				},
				"customer_name": {
					Name: "customer_name", Type: schema.FieldTypeString, Required: true,
					Constraints: []schema.Constraint{
						{Name: "customer_name_non_empty", Predicate: "nonEmpty", ErrorMessage: "customer name must be a non-empty string"},
					},
				},
				"gender": {
					Name: "gender", Type: schema.FieldTypeEnum, Required: true,
					Values: []any{"M", "F", "O"},
				},
				"country": {
					Name: "country", Type: schema.FieldTypeString, Required: true,
				},
				"registrations": {
					Name: "registrations", Type: schema.FieldTypeArray,
					ItemsType: &recordType,
				},
			},
		},
	}
}
