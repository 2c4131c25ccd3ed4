package domain

// Status is the order lifecycle state, persisted as its string literal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// Statuses lists every order status, in happy-path order followed by the
// side exits. Mapping tests range over this to stay exhaustive.
var Statuses = []Status{
	StatusPending, StatusProcessing, StatusConfirmed,
	StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
}

// CanCancel reports whether a customer may still cancel the order.
func (s Status) CanCancel() bool {
	return s == StatusPending || s == StatusProcessing
}

// CanModify reports whether the order contents may still change.
func (s Status) CanModify() bool {
	return s == StatusPending
}

// Terminal reports whether the order has reached a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Progress returns the display progress percentage. Not a workflow
// signal, purely for the order tracker UI.
func (s Status) Progress() int {
	switch s {
	case StatusPending:
		return 10
	case StatusProcessing:
		return 25
	case StatusConfirmed:
		return 50
	case StatusShipped:
		return 75
	case StatusDelivered:
		return 100
	case StatusCancelled, StatusRefunded:
		return 0
	}
	return 0
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusConfirmed:
		return "Confirmed"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	case StatusRefunded:
		return "Refunded"
	}
	return string(s)
}

// Color returns the badge classes the storefront renders for this status.
func (s Status) Color() string {
	switch s {
	case StatusPending:
		return "text-yellow-600 bg-yellow-50"
	case StatusProcessing:
		return "text-blue-600 bg-blue-50"
	case StatusConfirmed:
		return "text-green-600 bg-green-50"
	case StatusShipped:
		return "text-purple-600 bg-purple-50"
	case StatusDelivered:
		return "text-green-700 bg-green-100"
	case StatusCancelled:
		return "text-red-600 bg-red-50"
	case StatusRefunded:
		return "text-orange-600 bg-orange-50"
	}
	return ""
}

// PaymentStatus tracks payment state independently of the order status.
// The two machines are not coupled here: payment transitions are owned
// by the payment collaborator.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentPaid       PaymentStatus = "PAID"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

var PaymentStatuses = []PaymentStatus{
	PaymentPending, PaymentProcessing, PaymentPaid, PaymentFailed, PaymentRefunded,
}

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentProcessing:
		return "Processing"
	case PaymentPaid:
		return "Paid"
	case PaymentFailed:
		return "Failed"
	case PaymentRefunded:
		return "Refunded"
	}
	return string(s)
}

func (s PaymentStatus) Color() string {
	switch s {
	case PaymentPending:
		return "text-yellow-600 bg-yellow-50"
	case PaymentProcessing:
		return "text-blue-600 bg-blue-50"
	case PaymentPaid:
		return "text-green-600 bg-green-50"
	case PaymentFailed:
		return "text-red-600 bg-red-50"
	case PaymentRefunded:
		return "text-orange-600 bg-orange-50"
	}
	return ""
}

// ShipmentStatus is written by the external fulfillment process and is
// read-only from this core's perspective.
type ShipmentStatus string

const (
	ShipmentPending    ShipmentStatus = "PENDING"
	ShipmentProcessing ShipmentStatus = "PROCESSING"
	ShipmentShipped    ShipmentStatus = "SHIPPED"
	ShipmentInTransit  ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered  ShipmentStatus = "DELIVERED"
	ShipmentFailed     ShipmentStatus = "FAILED"
)

func (s ShipmentStatus) Label() string {
	switch s {
	case ShipmentPending:
		return "Pending"
	case ShipmentProcessing:
		return "Processing"
	case ShipmentShipped:
		return "Shipped"
	case ShipmentInTransit:
		return "In Transit"
	case ShipmentDelivered:
		return "Delivered"
	case ShipmentFailed:
		return "Failed"
	}
	return string(s)
}
