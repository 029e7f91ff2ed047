package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/temple/pkg/types"
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeValidation flattens validator errors into "field: tag" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + ": " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, ", ")
}

// decodeStrict decodes a single JSON object into a T, rejecting fields T
// does not declare.
func decodeStrict[T any](data []byte) (T, error) {
	var rec T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return rec, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	if dec.More() {
		return rec, fmt.Errorf("%w: trailing data after record", types.ErrInvalidData)
	}
	return rec, nil
}

// mergeJSON overlays fields onto the JSON form of current and decodes the
// result into a fresh value.
func mergeJSON[T any](current T, fields map[string]json.RawMessage) (T, error) {
	var zero T
	data, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("encoding record: %w", err)
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &merged); err != nil {
		return zero, fmt.Errorf("decoding record: %w", err)
	}
	maps.Copy(merged, fields)
	data, err = json.Marshal(merged)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return decodeStrict[T](data)
}

// fieldMap returns the top-level JSON fields of rec.
func fieldMap(rec any) (map[string]any, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

var errNullRecord = errors.New("null record")

// decodeStored decodes one record read from a partition. Stored records are
// decoded leniently: unknown fields are ignored. When the record only fails
// because its id has an unusable JSON type, the id is discarded and
// idDiscarded reports true so the caller assigns a fresh one.
func decodeStored[T any](msg json.RawMessage) (rec T, idDiscarded bool, err error) {
	var zero T
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return zero, false, errNullRecord
	}
	if err = json.Unmarshal(msg, &rec); err == nil {
		return rec, false, nil
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(msg, &fields) != nil || fields == nil {
		return zero, false, err
	}
	if _, ok := fields["id"]; !ok {
		return zero, false, err
	}
	delete(fields, "id")
	stripped, merr := json.Marshal(fields)
	if merr != nil {
		return zero, false, err
	}
	var retry T
	if json.Unmarshal(stripped, &retry) != nil {
		return zero, false, err
	}
	return retry, true, nil
}
