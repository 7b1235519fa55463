package models

import (
	"encoding/json"
)

// ID identifies a user or workflow. The API uses opaque string ids; numeric
// ids are accepted on input and kept in their decimal form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ID(rawScalar(b))
	return nil
}

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// rawScalar turns a JSON string or number into its string form.
func rawScalar(b json.RawMessage) string {
	if len(b) == 0 || string(b) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}

	return string(b)
}
