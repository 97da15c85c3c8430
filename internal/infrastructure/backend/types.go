// internal/infrastructure/backend/types.go
package backend

import "encoding/json"

// SessionStartRequest is the body for starting a table session. Guest fields
// pre-fill the session with the customer's identity when known.
type SessionStartRequest struct {
	GuestName  string `json:"guestName,omitempty"`
	GuestPhone string `json:"guestPhone,omitempty"`
}

// SessionStartResponse is returned by a successful table session start.
// TableID comes back as a bare number from some backend versions and as a
// string from others, so it is decoded as json.Number.
type SessionStartResponse struct {
	SessionToken string      `json:"sessionToken"`
	IsGuest      bool        `json:"isGuest"`
	TableID      json.Number `json:"tableId"`
}

// AddItemRequest is the body for adding one line to the table's open order
type AddItemRequest struct {
	MenuItemID          string   `json:"menuItemId"`
	Quantity            int      `json:"quantity"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
	Modifiers           []string `json:"modifiers,omitempty"`
}

// ServerOrderItem is one line of the backend's view of the order
type ServerOrderItem struct {
	MenuItemID   string `json:"menuItemId"`
	MenuItemName string `json:"menuItemName"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"` // Price per unit in cents
}

// ServerOrder is the backend's authoritative view of the current order for a
// table session. Status is an open enumeration; unknown values are passed
// through untouched.
type ServerOrder struct {
	OrderID             string            `json:"orderId"`
	TableID             json.Number       `json:"tableId"`
	Items               []ServerOrderItem `json:"items"`
	TotalAmount         int64             `json:"totalAmount"`
	FinalAmount         int64             `json:"finalAmount"`
	Status              string            `json:"status"`
	TaxAmount           *int64            `json:"taxAmount,omitempty"`
	ServiceChargeAmount *int64            `json:"serviceChargeAmount,omitempty"`
}

// LoginRequest is the customer login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the customer signup body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries a Google ID token for federated login
type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// AuthResponse is returned by login/signup. SessionLinked reports whether the
// active table session was attached to the customer account.
type AuthResponse struct {
	AccessToken   string `json:"accessToken"`
	SessionLinked bool   `json:"sessionLinked,omitempty"`
}

// Customer is the authenticated customer profile
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Picture   string `json:"picture,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// MenuItem is a menu item record from the backend
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Korean      string `json:"korean,omitempty"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // In cents
	Image       string `json:"image,omitempty"`
	Category    string `json:"category"`
	Spicy       bool   `json:"spicy,omitempty"`
	Popular     bool   `json:"popular,omitempty"`
	Vegetarian  bool   `json:"vegetarian,omitempty"`
}

// OrderLine is one item of a checkout order submission
type OrderLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CustomerDetails carries optional takeaway contact details on checkout
type CustomerDetails struct {
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	PickupTime string `json:"pickupTime,omitempty"`
}

// CreateOrderRequest is the checkout order submission body
type CreateOrderRequest struct {
	Items           []OrderLine      `json:"items"`
	TotalPrice      int64            `json:"totalPrice"`
	TableNumber     *string          `json:"tableNumber,omitempty"`
	OrderType       string           `json:"orderType"`
	PaymentMethod   string           `json:"paymentMethod"`
	PaymentStatus   string           `json:"paymentStatus"`
	CustomerDetails *CustomerDetails `json:"customerDetails,omitempty"`
}

// CreateOrderResponse is returned by a successful checkout submission
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}
