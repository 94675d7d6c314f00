package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Flex is an identifier or enum value the backend sends either as a JSON
// string or as a number. It is kept in its textual form.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex value must be string or number: %w", err)
	}
	*f = Flex(n.String())
	return nil
}

func (f Flex) String() string { return string(f) }

// Int parses the value as an integer; ok is false when it is not one.
func (f Flex) Int() (int, bool) {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0, false
	}
	return n, true
}
