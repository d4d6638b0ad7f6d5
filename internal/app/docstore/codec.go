// internal/app/docstore/codec.go
package docstore

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Encode flattens a model struct into Fields using its json tags. The id
// key is dropped; ids are owned by the backend.
func Encode(v any) (Fields, error) {
	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("docstore: encode %T: %w", v, err)
	}
	delete(out, FieldID)
	return Fields(out), nil
}

// Decode fills the model pointed to by out from a record. Decoding is
// lenient: numbers stored as strings are parsed, and numeric fields holding
// garbage, NaN or Inf decode as 0 instead of failing.
func Decode(rec Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(lenientNumbers),
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(rec)); err != nil {
		return fmt.Errorf("docstore: decode %T: %w", out, err)
	}
	return nil
}

// DecodeAll decodes every record, skipping ones that cannot be decoded.
func DecodeAll[T any](recs []Record) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		var v T
		if err := Decode(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func lenientNumbers(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Float64 && to.Kind() != reflect.Float32 {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0.0, nil
		}
		return f, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0.0, nil
		}
	case nil:
		return 0.0, nil
	}
	return data, nil
}
