// Package dto defines request and response shapes for the stocks endpoints.
package dto

// StockRequest is the create/update payload.
type StockRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Name     string `json:"name"`
	Exchange string `json:"exchange" binding:"required"`
	Group    string `json:"group"`
}

// StockResponse is one stock in API responses.
type StockResponse struct {
	ID       uint   `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Group    string `json:"group"`
}
