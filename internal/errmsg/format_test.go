//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpImageLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpImageLoad,
			err:      errors.New("file not found"),
			expected: "Failed to load image: file not found",
		},
		{
			name:     "list operation",
			op:       OpSourceList,
			err:      errors.New("connection refused"),
			expected: "Failed to load image list: connection refused",
		},
		{
			name:     "quarantine operation",
			op:       OpQuarantineWrite,
			err:      errors.New("permission denied"),
			expected: "Failed to write quarantine log: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpImageLoad,
			context:  "/pics/a.jpg",
			err:      nil,
			expected: "",
		},
		{
			name:     "includes context",
			op:       OpImageLoad,
			context:  "/pics/a.jpg",
			err:      errors.New("corrupt data"),
			expected: "Failed to load image '/pics/a.jpg': corrupt data",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpImageLoad,
			context:  "",
			err:      errors.New("corrupt data"),
			expected: "Failed to load image: corrupt data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}
