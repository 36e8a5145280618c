package models

import (
	"time"
)

type Ticket struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	UserID     string    `json:"userId"`
	TicketType string    `json:"ticketType"` // general, vip, student
	Price      float64   `json:"price"`
	QRCode     string    `json:"qrCode"` // base64 PNG data URL
	Status     string    `json:"status"` // pending, confirmed, used, cancelled
	PaymentID  string    `json:"paymentId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// QRPayload is what gets encoded into a ticket's QR image.
type QRPayload struct {
	TicketID   string `json:"ticketId"`
	EventID    string `json:"eventId"`
	UserID     string `json:"userId"`
	TicketType string `json:"ticketType"`
}
