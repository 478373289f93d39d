// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Session setup
	OpConfigLoad Op = "load configuration"
	OpStateOpen  Op = "open state database"
	OpSourceList Op = "load image list"

	// Playback
	OpImageLoad    Op = "load image"
	OpImageDecode  Op = "decode image"
	OpImagePreload Op = "preload image"

	// Quarantine
	OpQuarantineWrite Op = "write quarantine log"

	// Settings persistence
	OpWindowSave Op = "save window state"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
