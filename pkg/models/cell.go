// Package models contains domain types for ekaya-tabular.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-tabular/pkg/jsonutil"
)

// CellKind identifies which variant a CellValue holds.
type CellKind string

const (
	CellAbsent  CellKind = "absent"
	CellText    CellKind = "text"
	CellNumber  CellKind = "number"
	CellBoolean CellKind = "boolean"
)

// ValidCellKinds contains all valid cell kinds.
var ValidCellKinds = []CellKind{
	CellAbsent,
	CellText,
	CellNumber,
	CellBoolean,
}

// CellValue is a single parsed field. It is a closed variant: exactly one of
// text, number, boolean, or absent. The zero value is absent, which is
// distinct from an empty text value.
type CellValue struct {
	kind    CellKind
	text    string
	number  float64
	boolean bool
}

// AbsentCell returns a cell with no value.
func AbsentCell() CellValue {
	return CellValue{kind: CellAbsent}
}

// TextCell returns a text cell.
func TextCell(s string) CellValue {
	return CellValue{kind: CellText, text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) CellValue {
	return CellValue{kind: CellNumber, number: f}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) CellValue {
	return CellValue{kind: CellBoolean, boolean: b}
}

// Kind returns the variant held by the cell.
func (c CellValue) Kind() CellKind {
	if c.kind == "" {
		return CellAbsent
	}
	return c.kind
}

// IsAbsent reports whether the cell holds no value.
func (c CellValue) IsAbsent() bool {
	return c.Kind() == CellAbsent
}

// Text returns the text payload and true when the cell is text.
func (c CellValue) Text() (string, bool) {
	return c.text, c.Kind() == CellText
}

// Number returns the numeric payload and true when the cell is a number.
func (c CellValue) Number() (float64, bool) {
	return c.number, c.Kind() == CellNumber
}

// Bool returns the boolean payload and true when the cell is a boolean.
func (c CellValue) Bool() (bool, bool) {
	return c.boolean, c.Kind() == CellBoolean
}

// String renders the cell for display. Absent renders as an empty string.
func (c CellValue) String() string {
	switch c.Kind() {
	case CellText:
		return c.text
	case CellNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case CellBoolean:
		return strconv.FormatBool(c.boolean)
	case CellAbsent:
		return ""
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same variant and payload.
func (c CellValue) Equal(other CellValue) bool {
	if c.Kind() != other.Kind() {
		return false
	}
	switch c.Kind() {
	case CellText:
		return c.text == other.text
	case CellNumber:
		return c.number == other.number
	case CellBoolean:
		return c.boolean == other.boolean
	default:
		return true
	}
}

// MarshalJSON encodes the cell as a JSON scalar (null for absent).
func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.Kind() {
	case CellText:
		return json.Marshal(c.text)
	case CellNumber:
		return json.Marshal(c.number)
	case CellBoolean:
		return json.Marshal(c.boolean)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar into the matching variant.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	v, err := jsonutil.DecodeScalar(data)
	if err != nil {
		return fmt.Errorf("decode cell: %w", err)
	}
	*c = cellFromScalar(v)
	return nil
}

// MarshalYAML encodes the cell as a YAML scalar (null for absent).
func (c CellValue) MarshalYAML() (interface{}, error) {
	switch c.Kind() {
	case CellText:
		return c.text, nil
	case CellNumber:
		return c.number, nil
	case CellBoolean:
		return c.boolean, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML decodes a YAML scalar node into the matching variant.
func (c *CellValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("decode cell: expected scalar node, got kind %d", value.Kind)
	}
	switch value.ShortTag() {
	case "!!null":
		*c = AbsentCell()
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("decode cell: %w", err)
		}
		*c = BoolCell(b)
	case "!!int", "!!float":
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("decode cell: %w", err)
		}
		*c = NumberCell(f)
	default:
		*c = TextCell(value.Value)
	}
	return nil
}

func cellFromScalar(v any) CellValue {
	switch t := v.(type) {
	case string:
		return TextCell(t)
	case float64:
		return NumberCell(t)
	case bool:
		return BoolCell(t)
	default:
		return AbsentCell()
	}
}
