package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one flat row as returned by a backend list endpoint.
type Record map[string]any

// Get returns the field as display text. An exact key match wins; otherwise
// keys are compared case-insensitively. Missing and null fields yield "".
func (r Record) Get(field string) string {
	v, ok := r.lookup(field)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(t)
	}
}

// Has reports whether the field is present and non-null.
func (r Record) Has(field string) bool {
	v, ok := r.lookup(field)
	return ok && v != nil
}

func (r Record) lookup(field string) (any, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, field) {
			return v, true
		}
	}
	return nil, false
}

// DecodeRecords decodes a JSON array of flat objects. Numbers are kept as
// json.Number so integer columns render without exponent notation.
func DecodeRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
