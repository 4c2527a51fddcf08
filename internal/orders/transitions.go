package orders

import "github.com/eccentriccoder01/Bharatshaala/pkg/enums"

// transitions is the forward-only order state machine. Absent keys are
// terminal states.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusProcessing, enums.OrderStatusCancelled, enums.OrderStatusRefunded},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled, enums.OrderStatusRefunded},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusRefunded},
	enums.OrderStatusDelivered:  {enums.OrderStatusRefunded},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// vendorTargets are the statuses a vendor may move an order to. Confirmation
// is owned by payment verification and never by fulfillment.
var vendorTargets = map[enums.OrderStatus]struct{}{
	enums.OrderStatusProcessing: {},
	enums.OrderStatusShipped:    {},
	enums.OrderStatusDelivered:  {},
	enums.OrderStatusCancelled:  {},
}

// VendorMayTarget reports whether the vendor surface may request this status.
func VendorMayTarget(to enums.OrderStatus) bool {
	_, ok := vendorTargets[to]
	return ok
}

// cancellable are the statuses a customer may cancel from.
var cancellable = map[enums.OrderStatus]struct{}{
	enums.OrderStatusPending:    {},
	enums.OrderStatusConfirmed:  {},
	enums.OrderStatusProcessing: {},
}

// Cancellable reports whether a customer cancellation is allowed from status.
func Cancellable(status enums.OrderStatus) bool {
	_, ok := cancellable[status]
	return ok
}

// refundable are the statuses an admin refund is allowed from.
var refundable = map[enums.OrderStatus]struct{}{
	enums.OrderStatusConfirmed:  {},
	enums.OrderStatusProcessing: {},
	enums.OrderStatusShipped:    {},
	enums.OrderStatusDelivered:  {},
}

// Refundable reports whether an admin refund is allowed from status.
func Refundable(status enums.OrderStatus) bool {
	_, ok := refundable[status]
	return ok
}
