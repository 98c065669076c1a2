package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientHistory is returned when a series is shorter than the required number of bars.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrIndicatorUndefined is returned when an indicator has no value at the evaluation point.
	ErrIndicatorUndefined = errors.New("indicator undefined")
	// ErrInvalidBar is returned when a bar is malformed or out of order.
	ErrInvalidBar = errors.New("invalid bar")
)

// HistoryError reports how many bars were supplied and how many are needed.
type HistoryError struct {
	Have int
	Need int
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("insufficient history: have %d bars, need %d", e.Have, e.Need)
}

func (e *HistoryError) Unwrap() error {
	return ErrInsufficientHistory
}

// BarError identifies the first offending bar of a rejected series.
type BarError struct {
	Index  int
	Field  string
	Reason string
}

func (e *BarError) Error() string {
	return fmt.Sprintf("invalid bar %d (%s): %s", e.Index, e.Field, e.Reason)
}

func (e *BarError) Unwrap() error {
	return ErrInvalidBar
}
