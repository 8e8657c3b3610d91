package models

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// validNext is the forward-only order lifecycle. Cancelled and refunded are
// reachable from any pre-delivery state; terminal states have no successors.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusCancelled: true, StatusRefunded: true},
	StatusPaid:      {StatusShipped: true, StatusCancelled: true, StatusRefunded: true},
	StatusShipped:   {StatusDelivered: true, StatusCancelled: true, StatusRefunded: true},
	StatusDelivered: {},
	StatusCancelled: {},
	StatusRefunded:  {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
