// Copyright (c) 2026 Aeroray. All rights reserved.

// Package order implements purchase management: checkout, order history,
// administrative oversight, and the paid/delivered lifecycle.
package order

import "time"

// Item is an immutable snapshot of one purchased product line.
//
// The name, image, and price are copied at checkout so later catalogue edits
// never rewrite purchase history.
type Item struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// ShippingAddress is the destination recorded at checkout.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentResult is the payment provider's confirmation, stored verbatim.
// The field names mirror the provider's wire format.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Order represents a single purchase.
//
// # Lifecycle
//
// IsPaid and IsDelivered start false and are monotonic: once set they never
// revert. PaymentResult may be overwritten by later payment confirmations
// (last write wins), but the paid flag itself stays up.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user"`
	Items           []Item          `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// Owner fields hydrated from users.account for detail and admin views.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

const (
	FieldOrderItems      = "orderItems"
	FieldShippingAddress = "shippingAddress"
	FieldPaymentMethod   = "paymentMethod"
)
