package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingKind tags which booking flavour an order represents. All kinds
// share the same life cycle; kind-specific data lives in BookingDetails.
type BookingKind string

const (
	KindGeneric        BookingKind = "generic"
	KindVehicleCheckup BookingKind = "vehicle_checkup"
	KindKeyService     BookingKind = "key_service"
	KindPainting       BookingKind = "painting"
)

// Valid reports whether the kind is one of the known booking kinds.
func (k BookingKind) Valid() bool {
	switch k {
	case KindGeneric, KindVehicleCheckup, KindKeyService, KindPainting:
		return true
	}
	return false
}

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "gateway"
	PaymentMethodCOD     PaymentMethod = "cod"
)

// PaymentStatus tracks the money side of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderStatus tracks the fulfilment side of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusAssigned   OrderStatus = "assigned"
	StatusInProgress OrderStatus = "in-progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// legalTransitions is the full set of allowed order status edges.
// Cancellation is only reachable before work starts; terminal states
// accept nothing further.
var legalTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether moving from one order status to another
// is a legal edge in the state machine.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AddOn is an optional extra attached to a line item.
type AddOn struct {
	Name      string `json:"name"`
	UnitPrice Money  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// LineItem is one priced entry in a cart or order. Immutable once the
// owning order is persisted.
type LineItem struct {
	ReferenceID  string      `json:"referenceId"`
	Kind         BookingKind `json:"kind"`
	Title        string      `json:"title"`
	UnitPrice    Money       `json:"unitPrice"`
	Quantity     int         `json:"quantity"`
	AddOns       []AddOn     `json:"addOns,omitempty"`
	SubLineTotal Money       `json:"subLineTotal"`
}

// Address is the structured service address, produced upstream by the
// geocoding collaborator and consumed as-is.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

// BookingDetails carries the kind-specific fields of an order. Only the
// fields for the order's kind are populated.
type BookingDetails struct {
	// vehicle_checkup
	VehicleRegistration string `json:"vehicleRegistration,omitempty"`
	VehicleModel        string `json:"vehicleModel,omitempty"`
	OdometerKm          int    `json:"odometerKm,omitempty"`

	// key_service
	KeyType  string `json:"keyType,omitempty"`
	KeyCount int    `json:"keyCount,omitempty"`

	// painting
	SurfaceType string `json:"surfaceType,omitempty"`
	AreaSqft    int    `json:"areaSqft,omitempty"`
	QuoteNotes  string `json:"quoteNotes,omitempty"`
}

// Order is the central aggregate: a persisted booking with its money
// figures, life-cycle state and schedule.
type Order struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"userId"`
	Kind           BookingKind    `json:"kind"`
	Items          []LineItem     `json:"items"`
	Subtotal       Money          `json:"subtotal"`
	DiscountAmount Money          `json:"discountAmount"`
	CouponCode     *string        `json:"couponCode,omitempty"`
	TotalAmount    Money          `json:"totalAmount"`
	Currency       string         `json:"currency"`
	ServiceAddress Address        `json:"serviceAddress"`
	ScheduledAt    time.Time      `json:"scheduledAt"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	OrderStatus    OrderStatus    `json:"orderStatus"`
	Details        BookingDetails `json:"details"`
	Rating         *int           `json:"rating,omitempty"`
	Review         *string        `json:"review,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// OrderRequest is the checkout payload. AssertedTotal, when present, is
// the client's own arithmetic and is checked against the server figure.
type OrderRequest struct {
	Kind           BookingKind     `json:"kind"`
	Items          []CartItemInput `json:"items"`
	CouponCode     *string         `json:"couponCode,omitempty"`
	AssertedTotal  *Money          `json:"assertedTotal,omitempty"`
	ServiceAddress Address         `json:"serviceAddress"`
	ScheduledAt    time.Time       `json:"scheduledAt"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	Details        BookingDetails  `json:"details"`
}

// CartItemInput is one raw entry in a checkout request before the cart
// aggregator canonicalizes it.
type CartItemInput struct {
	ReferenceID string       `json:"referenceId"`
	Kind        BookingKind  `json:"kind"`
	Title       string       `json:"title"`
	UnitPrice   Money        `json:"unitPrice"`
	Quantity    int          `json:"quantity"`
	AddOns      []AddOnInput `json:"addOns,omitempty"`
}

// AddOnInput is a raw add-on entry in a checkout request.
type AddOnInput struct {
	Name      string `json:"name"`
	UnitPrice Money  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// TransitionRequest asks the state machine for one status move. The
// expected current status is a compare-and-swap precondition.
type TransitionRequest struct {
	Expected OrderStatus `json:"expected"`
	Target   OrderStatus `json:"target"`
}

// ReviewRequest attaches a post-completion rating/review to an order.
type ReviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review,omitempty"`
}
