package flowcode

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"encoding/json"
	"fmt"
)

// Compile-time interface checks for Code
var (
	_ fmt.Stringer             = Code{}
	_ driver.Valuer            = Code{}
	_ sql.Scanner              = (*Code)(nil)
	_ encoding.TextMarshaler   = Code{}
	_ encoding.TextUnmarshaler = (*Code)(nil)
	_ json.Marshaler           = Code{}
	_ json.Unmarshaler         = (*Code)(nil)
)

// Code is an index paired with the nominal length it is rendered at. Its
// text form uses DefaultFormatter; the length of the text is the length.
type Code struct {
	Index  int64
	Length int
}

// String returns the rendered code, or "" when Index does not fit Length.
func (c Code) String() string {
	s, err := DefaultFormatter.Format(c.Index, c.Length)
	if err != nil {
		return ""
	}
	return s
}

// ParseCode parses text rendered by DefaultFormatter.
func ParseCode(s string) (Code, error) {
	idx, err := DefaultFormatter.Parse(s, len(s))
	if err != nil {
		return Code{}, err
	}
	return Code{Index: idx, Length: len(s)}, nil
}

// MarshalText implements encoding.TextMarshaler
func (c Code) MarshalText() ([]byte, error) {
	s, err := DefaultFormatter.Format(c.Index, c.Length)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Code) UnmarshalText(b []byte) error {
	parsed, err := ParseCode(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (c Code) MarshalJSON() ([]byte, error) {
	b, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(b))
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Code) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Code{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("flowcode: invalid JSON string: %w", err)
	}
	return c.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer. Codes are stored as text.
func (c Code) Value() (driver.Value, error) {
	b, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *Code) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = Code{}
		return nil
	case Code:
		*c = v
		return nil
	case []byte:
		return c.UnmarshalText(v)
	case string:
		return c.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("flowcode: cannot scan %T", src)
	}
}

// NullCode can be used with the standard sql package to represent a
// Code value that can be NULL in the database.
type NullCode struct {
	Code  Code
	Valid bool
}

// Compile-time interface checks for NullCode
var (
	_ driver.Valuer    = NullCode{}
	_ sql.Scanner      = (*NullCode)(nil)
	_ json.Marshaler   = NullCode{}
	_ json.Unmarshaler = (*NullCode)(nil)
)

// Value implements the driver.Valuer interface.
func (n NullCode) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Code.Value()
}

// Scan implements the sql.Scanner interface.
func (n *NullCode) Scan(src interface{}) error {
	if src == nil {
		n.Code, n.Valid = Code{}, false
		return nil
	}
	err := n.Code.Scan(src)
	n.Valid = (err == nil)
	return err
}

var nullJSON = []byte("null")

// MarshalJSON marshals the NullCode as null or the nested Code as a string.
func (n NullCode) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return nullJSON, nil
	}
	return n.Code.MarshalJSON()
}

// UnmarshalJSON unmarshals a NullCode.
func (n *NullCode) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		n.Code, n.Valid = Code{}, false
		return nil
	}
	err := n.Code.UnmarshalJSON(b)
	n.Valid = (err == nil)
	return err
}
