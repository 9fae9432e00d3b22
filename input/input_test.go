package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsString(t *testing.T) {
	tests := []struct {
		name     string
		val      any
		expected string
		wantErr  bool
	}{
		{name: "plain string", val: "methane", expected: "methane"},
		{name: "empty string", val: "", expected: ""},
		{name: "bool", val: true, expected: "true"},
		{name: "integer", val: 42, expected: "42"},
		{name: "float64 whole", val: float64(300), expected: "300"},
		{name: "float64 fractional", val: 1.5, expected: "1.5"},
		{name: "slice rejected", val: []string{"a"}, wantErr: true},
		{name: "nil rejected", val: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsString(tt.val)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name     string
		val      any
		expected float64
		wantErr  bool
	}{
		{name: "float64", val: 298.15, expected: 298.15},
		{name: "int", val: 100, expected: 100},
		{name: "int64", val: int64(7), expected: 7},
		{name: "float32", val: float32(2), expected: 2},
		{name: "numeric string", val: "3.14", expected: 3.14},
		{name: "non-numeric string", val: "warm", wantErr: true},
		{name: "bool rejected", val: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsNumber(tt.val)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		name     string
		val      any
		expected bool
		wantErr  bool
	}{
		{name: "true", val: true, expected: true},
		{name: "false", val: false, expected: false},
		{name: "string true", val: "true", expected: true},
		{name: "string 1", val: "1", expected: true},
		{name: "string false", val: "false", expected: false},
		{name: "bad string", val: "yes please", wantErr: true},
		{name: "number rejected", val: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsBool(tt.val)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1000", FormatNumber(1000))
	assert.Equal(t, "-3", FormatNumber(-3))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "298.15", FormatNumber(298.15))
}
