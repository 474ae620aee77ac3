package models

import "strings"

type TickerInfo struct {
	Symbol string
	Name   string
}

// PopularTickers are always served; other symbols may be rejected as unknown.
var PopularTickers = []TickerInfo{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc. (Google)"},
	{Symbol: "MSFT", Name: "Microsoft Corp."},
	{Symbol: "TSLA", Name: "Tesla, Inc."},
	{Symbol: "AMZN", Name: "Amazon.com, Inc."},
	{Symbol: "META", Name: "Meta Platforms, Inc."},
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries Ltd."},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services Ltd."},
	{Symbol: "INFY.NS", Name: "Infosys Ltd."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
}

// DefaultHorizons are the forecast lengths offered to callers.
var DefaultHorizons = []int{7, 14, 30, 60, 90}

const DefaultForecastDays = 7

// NormalizeTicker trims surrounding whitespace and upper-cases the symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsPopularTicker reports whether the normalized symbol is in PopularTickers.
func IsPopularTicker(symbol string) bool {
	for _, t := range PopularTickers {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}

func PopularSymbols() []string {
	out := make([]string, len(PopularTickers))
	for i, t := range PopularTickers {
		out[i] = t.Symbol
	}
	return out
}
