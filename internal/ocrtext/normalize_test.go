package ocrtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf to lf", "MLEKO 4,99\r\nCHLEB 6,50\r", "MLEKO 4,99\nCHLEB 6,50"},
		{"tabs become spaces", "MLEKO\t\t4,99", "MLEKO 4,99"},
		{"space runs collapse to two", "MLEKO      4,99", "MLEKO  4,99"},
		{"double space survives", "MLEKO  4,99", "MLEKO  4,99"},
		{"blank line runs collapse", "MLEKO\n\n\n\nCHLEB", "MLEKO\n\nCHLEB"},
		{"trailing space per line trimmed", "MLEKO 4,99   \nCHLEB 6,50  ", "MLEKO 4,99\nCHLEB 6,50"},
		{"outer whitespace trimmed", "\n\n  PARAGON FISKALNY\n", "PARAGON FISKALNY"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}
