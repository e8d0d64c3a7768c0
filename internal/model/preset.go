package model

import "strings"

// DefaultSymbol is used when no symbol is supplied.
const DefaultSymbol = "RELIANCE.NS"

// Preset is a display name bound to a ticker.
type Preset struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Presets lists popular Indian stocks in display order.
var Presets = []Preset{
	{Name: "Reliance Industries", Symbol: "RELIANCE.NS"},
	{Name: "Tata Consultancy Services (TCS)", Symbol: "TCS.NS"},
	{Name: "Infosys", Symbol: "INFY.NS"},
	{Name: "HDFC Bank", Symbol: "HDFCBANK.NS"},
	{Name: "ICICI Bank", Symbol: "ICICIBANK.NS"},
	{Name: "Wipro", Symbol: "WIPRO.NS"},
	{Name: "Bharti Airtel", Symbol: "BHARTIARTL.NS"},
	{Name: "Asian Paints", Symbol: "ASIANPAINT.NS"},
	{Name: "Hindustan Unilever", Symbol: "HINDUNILVR.NS"},
	{Name: "Bajaj Finance", Symbol: "BAJFINANCE.NS"},
	{Name: "Mphasis", Symbol: "MPHASIS.NS"},
}

// ResolvePreset maps a preset display name (case-insensitive) to its symbol.
// Anything else is treated as a symbol and normalized. Empty input yields
// DefaultSymbol.
func ResolvePreset(nameOrSymbol string) string {
	s := strings.TrimSpace(nameOrSymbol)
	if s == "" {
		return DefaultSymbol
	}
	for _, p := range Presets {
		if strings.EqualFold(p.Name, s) {
			return p.Symbol
		}
	}
	return NormalizeSymbol(s)
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
