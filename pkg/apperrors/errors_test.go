package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError_Unwrap(t *testing.T) {
	err := NewParseError("orders.csv", ErrEmptyInput)

	assert.True(t, errors.Is(err, ErrEmptyInput))
	assert.Equal(t, "parse orders.csv: empty input", err.Error())
}

func TestParseError_As(t *testing.T) {
	wrapped := fmt.Errorf("ingest: %w", NewParseError("a.csv", ErrUnreadableStructure))

	var pe *ParseError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "a.csv", pe.FileName)
	assert.ErrorIs(t, wrapped, ErrUnreadableStructure)
}

func TestParseError_NoFileName(t *testing.T) {
	err := NewParseError("", ErrEmptyInput)
	assert.Equal(t, "parse: empty input", err.Error())
}
