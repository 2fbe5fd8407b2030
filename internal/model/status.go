package model

// OrderType distinguishes product orders from hotel bookings.
type OrderType string

const (
	OrderTypeProduct OrderType = "product"
	OrderTypeHotel   OrderType = "hotel"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == OrderTypeProduct || t == OrderTypeHotel
}

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusCheckedIn  OrderStatus = "checked_in"
	StatusCheckedOut OrderStatus = "checked_out"
)

// forward transitions per order type; cancelled and refunded are reachable
// from every non-terminal state and are handled separately.
var forwardTransitions = map[OrderType]map[OrderStatus]OrderStatus{
	OrderTypeProduct: {
		StatusPending:    StatusProcessing,
		StatusProcessing: StatusShipped,
		StatusShipped:    StatusDelivered,
	},
	OrderTypeHotel: {
		StatusPending:   StatusConfirmed,
		StatusConfirmed: StatusCheckedIn,
		StatusCheckedIn: StatusCheckedOut,
	},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered,
		StatusCancelled, StatusRefunded, StatusConfirmed, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCheckedOut, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether an order of type t may move from one status
// to another.
func CanTransition(t OrderType, from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.IsTerminal() || from == to {
		return false
	}
	if to == StatusCancelled || to == StatusRefunded {
		return true
	}
	next, ok := forwardTransitions[t][from]
	return ok && next == to
}

// PaymentStatus tracks the payment of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPaid},
	PaymentPaid:    {PaymentRefunded},
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// CanTransitionPayment reports whether payment may move from one status to another.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
