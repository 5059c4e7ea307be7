package logging

import "strings"

// Level represents a log level
type Level int

const (
	// DebugLevel is verbose per-row diagnostics, normally disabled
	DebugLevel Level = iota
	// InfoLevel is the default priority for pipeline progress
	InfoLevel
	// WarnLevel marks recoverable problems such as rejected ledger rows
	WarnLevel
	// ErrorLevel marks failures that abort an operation
	ErrorLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level. Unknown strings map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
