// internal/domain/signup/order.go
package signup

import "time"

// Order is created when a private signup is signed.
type Order struct {
	ID           string       `json:"id"`
	CaseID       string       `json:"caseId"`
	CustomerType CustomerType `json:"customerType"`
	Scenario     Scenario     `json:"scenario"`
	ProductID    string       `json:"productId"`
	ProductName  string       `json:"productName"`
	Address      *Address     `json:"address,omitempty"`
	StartDate    string       `json:"startDate,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// SavedSelection is an extra services selection stored against an order.
type SavedSelection struct {
	OrderID   string                 `json:"orderId"`
	Selection ExtraServicesSelection `json:"selection"`
	SavedAt   time.Time              `json:"savedAt"`
}
