package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTicker    = errors.New("ticker symbol is required")
	ErrInvalidHorizon = errors.New("unsupported forecast horizon")
	ErrUnknownTicker  = errors.New("unknown ticker")
)

// UnknownTickerError is returned when a symbol is rejected as having no data.
type UnknownTickerError struct {
	Ticker string
}

func (e *UnknownTickerError) Error() string {
	return fmt.Sprintf("Invalid ticker symbol: %s or no data found. Please try a known ticker.", e.Ticker)
}

func (e *UnknownTickerError) Unwrap() error { return ErrUnknownTicker }
