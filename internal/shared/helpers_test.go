package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusError(t *testing.T) {
	err := HTTPStatusError(503, "https://charts.example.com/index.yaml")
	assert.EqualError(t, err, "status=503 url=https://charts.example.com/index.yaml")
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single line", input: "token", expected: "token"},
		{name: "trailing newline", input: " token \n", expected: "token"},
		{name: "windows line ending", input: "token\r\nnext", expected: "token"},
		{name: "empty", input: "", expected: ""},
		{name: "blank first line", input: "\nsecond", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FirstLine(tt.input))
		})
	}
}
