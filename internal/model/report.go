package model

import "time"

// StatusSummary is one row of the admin reconciliation view: how many
// orders sit in a given (orderStatus, paymentStatus) bucket and the
// money they represent.
type StatusSummary struct {
	OrderStatus   OrderStatus   `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Orders        int           `json:"orders"`
	TotalAmount   Money         `json:"totalAmount"`
}

// ReconciliationSummary is the full admin summary for a time window.
type ReconciliationSummary struct {
	From time.Time       `json:"from"`
	To   time.Time       `json:"to"`
	Rows []StatusSummary `json:"rows"`
}
