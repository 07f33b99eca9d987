// internal/domain/models/industryregion.go
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Share is one category of a categorical breakdown: a name and its AI
// adoption percentage.
type Share struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Shares is a name → percentage mapping that keeps the key order of the
// source document. It decodes from and encodes to a JSON object.
//
// Duplicate keys are kept as separate entries so validation can report them.
type Shares []Share

// IndustryRegionData is the industry_region.json document.
type IndustryRegionData struct {
	Industries Shares `json:"industries"`
	Regions    Shares `json:"regions"`
}

// Names returns the category names in document order.
func (s Shares) Names() []string {
	out := make([]string, len(s))
	for i, sh := range s {
		out[i] = sh.Name
	}
	return out
}

// Values returns the percentages in document order.
func (s Shares) Values() []float64 {
	out := make([]float64, len(s))
	for i, sh := range s {
		out[i] = sh.Value
	}
	return out
}

// UnmarshalJSON decodes a JSON object into Shares, preserving key order.
// A JSON null leaves the receiver nil.
func (s *Shares) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected a JSON object of name to percentage")
	}

	out := Shares{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
		if v == nil {
			return fmt.Errorf("%q: value is null", name)
		}
		out = append(out, Share{Name: name, Value: *v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON encodes Shares as a JSON object in slice order.
func (s Shares) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sh := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(sh.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(sh.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
