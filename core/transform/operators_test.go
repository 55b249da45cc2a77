package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *LookupTable {
	return NewLookupTable(map[string]string{
		"29": "Karnataka",
		"27": "Maharashtra",
	})
}

func callOp(t *testing.T, name string, args ...any) (any, error) {
	t.Helper()
	op, ok := BuiltinOperators(testTable())[name]
	require.True(t, ok, "operator %s not registered", name)
	return op.Fn(args)
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"null propagates", nil, nil},
		{"lowercase word", "john", "John"},
		{"shouting input", "DOE", "Doe"},
		{"already capitalized", "Jane", "Jane"},
		{"empty string", "", ""},
		{"number stringifies", float64(42), "42"},
		{"multi-byte first letter", "émile", "Émile"},
		{"multi-byte shouting input", "ÖLSEN", "Ölsen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callOp(t, OpCapitalize, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCapitalize_RejectsList(t *testing.T) {
	_, err := callOp(t, OpCapitalize, []any{"a", "b"})
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, OpCapitalize, evalErr.Op)
}

func TestSubstr(t *testing.T) {
	tests := []struct {
		name     string
		start    any
		length   any
		input    any
		expected any
	}{
		{"plain window", 0, 4, "abcdef", "abcd"},
		{"short input returns overlap", 0, 10, "ab", "ab"},
		{"start beyond end returns empty", 5, 3, "ab", ""},
		{"mid window", 2, 2, "abcdef", "cd"},
		{"null propagates", 0, 3, nil, nil},
		{"float indexes from JSON", float64(0), float64(2), "abcd", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callOp(t, OpSubstr, tt.start, tt.length, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSubstr_OutOfDomain(t *testing.T) {
	_, err := callOp(t, OpSubstr, -1, 3, "abc")
	assert.Error(t, err)

	_, err = callOp(t, OpSubstr, "x", 3, "abc")
	assert.Error(t, err)

	_, err = callOp(t, OpSubstr, 0, 3, []any{"abc"})
	var evalErr *EvaluationError
	assert.ErrorAs(t, err, &evalErr)
}

func TestJoinParts(t *testing.T) {
	tests := []struct {
		name     string
		args     []any
		expected string
	}{
		{"all parts present", []any{"John", " ", "Doe"}, "John Doe"},
		{"null part contributes empty string", []any{"A", nil, "B"}, "AB"},
		{"all nulls", []any{nil, nil}, ""},
		{"no parts", nil, ""},
		{"mixed scalars", []any{"v", float64(2), true}, "v2true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callOp(t, OpJoinParts, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCodeLookupAll(t *testing.T) {
	t.Run("known code splits id and names the code", func(t *testing.T) {
		got, err := callOp(t, OpCodeLookupAll, []any{
			map[string]any{"id": "29ABCDE1234F1Z5"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"id": "29ABCDE1234F1Z5", "payload": "ABCDE1234F", "name": "Karnataka"},
		}, got)
	})

	t.Run("unknown code yields empty name", func(t *testing.T) {
		got, err := callOp(t, OpCodeLookupAll, []any{
			map[string]any{"id": "99ABCDE1234F1Z5"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"id": "99ABCDE1234F1Z5", "payload": "ABCDE1234F", "name": ""},
		}, got)
	})

	t.Run("short identifier is skipped", func(t *testing.T) {
		got, err := callOp(t, OpCodeLookupAll, []any{
			map[string]any{"id": "29SHORT"},
			map[string]any{"id": "27FGHIJ5678K2Y4"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"id": "27FGHIJ5678K2Y4", "payload": "FGHIJ5678K", "name": "Maharashtra"},
		}, got)
	})

	t.Run("non-map entries are skipped", func(t *testing.T) {
		got, err := callOp(t, OpCodeLookupAll, []any{"noise", map[string]any{"other": 1}})
		require.NoError(t, err)
		assert.Equal(t, []any{}, got)
	})

	t.Run("singleton-wrapped nested list unwraps one level", func(t *testing.T) {
		got, err := callOp(t, OpCodeLookupAll, []any{
			[]any{
				map[string]any{"id": "29ABCDE1234F1Z5"},
				map[string]any{"id": "27FGHIJ5678K2Y4"},
			},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("null propagates", func(t *testing.T) {
		got, err := callOp(t, OpCodeLookupAll, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("scalar input is out of domain", func(t *testing.T) {
		_, err := callOp(t, OpCodeLookupAll, "29ABCDE1234F1Z5")
		var evalErr *EvaluationError
		assert.ErrorAs(t, err, &evalErr)
	})
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
		wantErr  bool
	}{
		{"millisecond timestamp", "1990-05-15T00:00:00.000Z", "15-May-1990", false},
		{"rfc3339 timestamp", "2024-01-02T10:30:00Z", "02-Jan-2024", false},
		{"plain date", "2024-01-02", "02-Jan-2024", false},
		{"null propagates", nil, nil, false},
		{"unparsable", "yesterday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callOp(t, OpFormatDate, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
