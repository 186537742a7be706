package model

import "time"

type OrderStatus string

const (
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusScheduled  OrderStatus = "Scheduled"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusPending    OrderStatus = "Pending"
)

// OrderStatuses lists every order status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusCompleted,
	OrderStatusInProgress,
	OrderStatusScheduled,
	OrderStatusCancelled,
	OrderStatusPending,
}

type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "Active"
	DriverStatusOnLeave  DriverStatus = "On Leave"
	DriverStatusInactive DriverStatus = "Inactive"
)

type OrderItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Weight     string `json:"weight"`
	Dimensions string `json:"dimensions"`
	Fragile    bool   `json:"fragile"`
}

type Order struct {
	ID             string      `json:"id"`
	Date           time.Time   `json:"date"`
	Customer       string      `json:"customer"`
	Pickup         string      `json:"pickup"`
	Delivery       string      `json:"delivery"`
	Status         OrderStatus `json:"status"`
	AmountCents    int64       `json:"amount_cents"`
	Driver         string      `json:"driver,omitempty"`
	Items          []OrderItem `json:"items,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	PaymentMethod  string      `json:"payment_method,omitempty"`
	ContactPhone   string      `json:"contact_phone,omitempty"`
}

type Driver struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	Phone               string       `json:"phone"`
	Location            string       `json:"location"`
	Rating              float64      `json:"rating"`
	CompletedDeliveries int          `json:"completed_deliveries"`
	Status              DriverStatus `json:"status"`
	Vehicles            []string     `json:"vehicles"`
	JoinDate            time.Time    `json:"join_date"`
	Available           bool         `json:"available"`
}
