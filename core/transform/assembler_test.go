package transform

import (
	"testing"

	"github.com/asaidimu/go-reshape/core/document"
	"github.com/asaidimu/go-reshape/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(t *testing.T, bindings []FieldBinding) *Assembler {
	t.Helper()
	a := NewAssembler(newTestRegistry(), nil)
	require.NoError(t, a.CompileBindings(bindings))
	return a
}

func TestAssemble_ComputedOverridesRawPayload(t *testing.T) {
	bindings := []FieldBinding{
		{Field: "full_name", Expression: Pipeline(Query("$..first_name"), Call(OpCapitalize))},
	}
	a := newTestAssembler(t, bindings)

	// The payload carries its own full_name, but the computed value wins.
	doc := document.Document{
		"first_name": "john",
		"full_name":  "SHOULD NOT SURVIVE",
	}
	got := a.Assemble(doc, bindings)
	assert.Equal(t, "John", got["full_name"])
}

func TestAssemble_RawPayloadFallback(t *testing.T) {
	tests := []struct {
		name     string
		bindings []FieldBinding
		doc      document.Document
	}{
		{
			"expression yields nothing",
			[]FieldBinding{{Field: "email", Expression: Query("$..no_such_key")}},
			document.Document{"email": "a@b.example"},
		},
		{
			"expression yields empty string",
			[]FieldBinding{{Field: "email", Expression: Query("$..blank")}},
			document.Document{"blank": "", "email": "a@b.example"},
		},
		{
			"expression yields empty list",
			[]FieldBinding{{Field: "email", Expression: Query("$..entries")}},
			document.Document{"entries": []any{}, "email": "a@b.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAssembler(t, tt.bindings)
			got := a.Assemble(tt.doc, tt.bindings)
			assert.Equal(t, "a@b.example", got["email"])
		})
	}
}

func TestAssemble_DefaultFallback(t *testing.T) {
	bindings := []FieldBinding{
		{Field: "country", Expression: Query("$..country"), Default: "Unknown"},
	}
	a := newTestAssembler(t, bindings)

	got := a.Assemble(document.Document{"city": "Pune"}, bindings)
	assert.Equal(t, "Unknown", got["country"])
}

func TestAssemble_AbsentField(t *testing.T) {
	bindings := []FieldBinding{
		{Field: "nickname", Expression: Query("$..nickname")},
	}
	a := newTestAssembler(t, bindings)

	got := a.Assemble(document.Document{}, bindings)
	_, present := got["nickname"]
	assert.False(t, present)
}

func TestAssemble_FalseAndZeroAreMeaningful(t *testing.T) {
	bindings := []FieldBinding{
		{Field: "active", Expression: Query("$..active"), Default: true},
		{Field: "count", Expression: Query("$..count"), Default: 99},
	}
	a := newTestAssembler(t, bindings)

	got := a.Assemble(document.Document{"active": false, "count": 0}, bindings)
	assert.Equal(t, false, got["active"])
	assert.Equal(t, 0, got["count"])
}

func TestAssemble_EvaluationErrorDegradesOneFieldOnly(t *testing.T) {
	bindings := []FieldBinding{
		// CAPITALIZE over a multi-match list is out of domain.
		{Field: "bad", Expression: Call(OpCapitalize, Query("$..value")), Default: "fallback"},
		{Field: "good", Expression: Pipeline(Query("$..surname"), Call(OpCapitalize))},
	}
	a := newTestAssembler(t, bindings)

	doc := document.Document{
		"a":       map[string]any{"value": "x"},
		"b":       map[string]any{"value": "y"},
		"surname": "doe",
	}
	got := a.Assemble(doc, bindings)
	assert.Equal(t, "fallback", got["bad"])
	assert.Equal(t, "Doe", got["good"])
}

func TestAssemble_BindingsIndependentOfOrder(t *testing.T) {
	forward := []FieldBinding{
		{Field: "first", Expression: Pipeline(Query("$..first_name"), Call(OpCapitalize))},
		{Field: "last", Expression: Pipeline(Query("$..surname"), Call(OpCapitalize))},
	}
	reversed := []FieldBinding{forward[1], forward[0]}

	a := newTestAssembler(t, forward)
	require.NoError(t, a.CompileBindings(reversed))

	doc := document.Document{"first_name": "john", "surname": "doe"}
	assert.Equal(t, a.Assemble(doc, forward), a.Assemble(doc, reversed))
}

func TestAssemble_FullNameComposition(t *testing.T) {
	bindings := []FieldBinding{
		{Field: "full_name", Expression: Call(OpJoinParts,
			Pipeline(Query("$..first_name"), Call(OpSubstr, Literal(0), Literal(10)), Call(OpCapitalize)),
			Literal(" "),
			Pipeline(Query("$..surname"), Call(OpCapitalize), Call(OpSubstr, Literal(0), Literal(7))),
		)},
	}
	a := newTestAssembler(t, bindings)

	got := a.Assemble(document.Document{"first_name": "john", "surname": "doe"}, bindings)
	assert.Equal(t, "John Doe", got["full_name"])
}

func TestAssembleValidated_AggregatesIssues(t *testing.T) {
	bindings := []FieldBinding{
		{Field: "full_name", Expression: Query("$..full_name")},
		{Field: "passport_number", Expression: Query("$..passport")},
	}
	a := newTestAssembler(t, bindings)

	def := &schema.Definition{
		Name: "identity",
		Fields: map[string]*schema.FieldDefinition{
			"full_name": {
				Name: "full_name", Type: schema.FieldTypeString, Required: true,
				Constraints: []schema.Constraint{{
					Name:       "minLength",
					Predicate:  "minLength",
					Parameters: 3,
				}},
			},
			"passport_number": {
				Name: "passport_number", Type: schema.FieldTypeString, Required: true,
			},
		},
	}

	doc := document.Document{"full_name": "ab"}
	result, vr := a.AssembleValidated(doc, bindings, def, schema.BuiltinPredicates())
	assert.Equal(t, "ab", result["full_name"])
	assert.False(t, vr.Valid)
	// Both the short name and the missing passport are reported together.
	require.Len(t, vr.Issues, 2)
}

func TestMeaningful(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"empty list", []any{}, false},
		{"empty map", map[string]any{}, false},
		{"false", false, true},
		{"zero", 0, true},
		{"non-empty string", "x", true},
		{"non-empty list", []any{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Meaningful(tt.value))
		})
	}
}
