// Package entity defines the domain models for the stocks feature.
package entity

// Stock represents one listed instrument, identified by its
// (symbol, exchange) pair.
type Stock struct {
	ID       uint
	Symbol   string // Ticker / scrip code, e.g. "TCS" or "500325"
	Name     string // Display name; equals Symbol for NSE-sourced rows
	Exchange string // Exchange code, e.g. "BSE", "NSE"
	Group    string // Group / series classification, e.g. "A" or "EQ"
}
