package request

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is an integer body field that accepts a JSON number or a numeric string.
// Decoding never fails, so a wrong type surfaces as a field validation error next to
// the other field errors instead of rejecting the whole body. Validate it with
// intrange.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Number(strings.TrimSpace(s))
		return nil
	}

	*n = Number(data)
	return nil
}

// MarshalJSON writes integers as numbers and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if v, ok := n.value(); ok {
		return []byte(strconv.Itoa(v)), nil
	}
	return json.Marshal(string(n))
}

// Int returns the integer value, or 0 when the field is absent or not an integer.
func (n Number) Int() int {
	v, _ := n.value()
	return v
}

// IntPtr returns nil when the field is absent or not an integer.
func (n Number) IntPtr() *int {
	v, ok := n.value()
	if !ok {
		return nil
	}
	return &v
}

func (n Number) value() (int, bool) {
	v, err := strconv.Atoi(string(n))
	return v, err == nil
}
