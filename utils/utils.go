// Package utils provides conversion helpers between map-shaped transform
// results and typed record structs.
package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// StructToMap converts a struct (or pointer to struct) into a map[string]any,
// honoring json tags. It is the inverse of MapToStruct.
func StructToMap[T any](record T) (map[string]any, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct, got %s", val.Kind())
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("StructToMap: marshal failed: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("StructToMap: unmarshal failed: %w", err)
	}
	return out, nil
}

// MapToStruct converts a map[string]any into a new instance of the struct
// type T, honoring json tags on T's fields.
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T
	if input == nil {
		return zero, fmt.Errorf("input map cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("type parameter must be a struct type")
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("MapToStruct: marshal failed: %w", err)
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, fmt.Errorf("MapToStruct: unmarshal failed: %w", err)
	}
	return result, nil
}
