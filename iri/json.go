package iri

import "encoding/json"

// MarshalJSON encodes the absolute form.
func (i Iri) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.value)
}

// UnmarshalJSON decodes and normalizes an absolute or bracketed form.
// Prefixed names are not accepted on the wire; the absolute form is the
// interchange contract.
func (i *Iri) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s, nil)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
