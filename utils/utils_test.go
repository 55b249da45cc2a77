package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	FullName string `json:"full_name"`
	Age      int    `json:"age"`
	Active   bool   `json:"active"`
}

func TestMapToStruct(t *testing.T) {
	got, err := MapToStruct[sampleRecord](map[string]any{
		"full_name": "John Doe",
		"age":       34,
		"active":    true,
	})
	require.NoError(t, err)
	assert.Equal(t, sampleRecord{FullName: "John Doe", Age: 34, Active: true}, got)
}

func TestMapToStruct_MissingFieldsZeroValued(t *testing.T) {
	got, err := MapToStruct[sampleRecord](map[string]any{"full_name": "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, sampleRecord{FullName: "John Doe"}, got)
}

func TestMapToStruct_NilInput(t *testing.T) {
	_, err := MapToStruct[sampleRecord](nil)
	require.Error(t, err)
}

func TestMapToStruct_NonStructType(t *testing.T) {
	_, err := MapToStruct[int](map[string]any{"x": 1})
	require.Error(t, err)
}

func TestStructToMap(t *testing.T) {
	got, err := StructToMap(sampleRecord{FullName: "John Doe", Age: 34})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"full_name": "John Doe",
		"age":       float64(34),
		"active":    false,
	}, got)
}

func TestStructToMap_RoundTrip(t *testing.T) {
	original := sampleRecord{FullName: "John Doe", Age: 34, Active: true}
	m, err := StructToMap(original)
	require.NoError(t, err)
	back, err := MapToStruct[sampleRecord](m)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestStructToMap_RejectsNonStruct(t *testing.T) {
	_, err := StructToMap(42)
	require.Error(t, err)
}

func TestStructToMap_NilPointer(t *testing.T) {
	var p *sampleRecord
	_, err := StructToMap(p)
	require.Error(t, err)
}
