package parser

import (
	"testing"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		field string
		want  models.CellValue
	}{
		{"", models.AbsentCell()},
		{"true", models.BoolCell(true)},
		{"FALSE", models.BoolCell(false)},
		{"True", models.BoolCell(true)},
		{"42", models.NumberCell(42)},
		{"-3.5", models.NumberCell(-3.5)},
		{"+7", models.NumberCell(7)},
		{".5", models.NumberCell(0.5)},
		{"1e3", models.NumberCell(1000)},
		{"1e400", models.TextCell("1e400")},
		{"NaN", models.TextCell("NaN")},
		{"Inf", models.TextCell("Inf")},
		{"0x1F", models.TextCell("0x1F")},
		{"1,5", models.TextCell("1,5")},
		{"2024-01-15", models.TextCell("2024-01-15")},
		{"yes", models.TextCell("yes")},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got := CoerceValue(tt.field)
			if !got.Equal(tt.want) {
				t.Errorf("CoerceValue(%q) = %v (%s), want %v (%s)", tt.field, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestLooksLikeHeader(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   bool
	}{
		{name: "all names", fields: []string{"id", "name"}, want: true},
		{name: "all numbers", fields: []string{"1", "2"}, want: false},
		{name: "exactly half is not a majority", fields: []string{"id", "2"}, want: false},
		{name: "majority text", fields: []string{"id", "name", "3"}, want: true},
		{name: "empty counts as non-numeric", fields: []string{"", "", "3"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeHeader(tt.fields); got != tt.want {
				t.Errorf("LooksLikeHeader(%q) = %v, want %v", tt.fields, got, tt.want)
			}
		})
	}
}
