package models

import "fmt"

// InsufficientDataError reports a series too short for indicator lookbacks.
// The symbol is skipped, never failed.
type InsufficientDataError struct {
	Symbol string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient history: have %d bars, need %d", e.Symbol, e.Have, e.Need)
}

// MalformedRecordError reports a structurally invalid bar inside a series.
type MalformedRecordError struct {
	Symbol string
	Index  int
	Field  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: malformed bar at index %d: %s", e.Symbol, e.Index, e.Field)
}
