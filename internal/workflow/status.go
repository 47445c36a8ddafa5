package workflow

import "strings"

// Status is the lifecycle state of a pharmacy order.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"

	// Returns branch. These transitions are driven by the returns
	// subsystem; the workflow engine only displays and filters them.
	StatusReturnRequested Status = "return-requested"
	StatusApproved        Status = "approved"
	StatusRefunded        Status = "refunded"
	StatusRejected        Status = "rejected"
)

// forward is the canonical fulfillment chain.
var forward = map[Status]Status{
	StatusPending:        StatusConfirmed,
	StatusConfirmed:      StatusPreparing,
	StatusPreparing:      StatusReady,
	StatusReady:          StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// IsValid reports whether s is part of the status vocabulary.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
		StatusReturnRequested, StatusApproved, StatusRefunded, StatusRejected:
		return true
	default:
		return false
	}
}

// NextStatus returns the forward transition from current, or false when
// current is terminal or managed by the returns subsystem.
func NextStatus(current Status) (Status, bool) {
	next, ok := forward[current]
	return next, ok
}

// IsTerminal reports whether no further transition is ever issued for s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded, StatusRejected:
		return true
	default:
		return false
	}
}

// InActiveQueue reports whether an order with this status belongs in the
// pharmacy's active work queue. Delivered and return-requested orders
// surface in the dashboard and returns views instead.
func (s Status) InActiveQueue() bool {
	return s != StatusDelivered && s != StatusReturnRequested
}

// Returns-branch statuses keep their raw keys as labels; the frontend
// resolves them against its translation catalog.
var rawLabels = map[Status]string{
	StatusApproved:        "approved-refunded",
	StatusReturnRequested: "return-requested",
	StatusRefunded:        "refunded",
	StatusRejected:        "rejected",
}

var minorWords = map[string]bool{
	"for": true,
	"of":  true,
}

// StatusLabel returns the display label for a status: raw keys for the
// returns branch, otherwise the hyphenated status in headline case
// ("out-for-delivery" becomes "Out for Delivery").
func StatusLabel(s Status) string {
	if label, ok := rawLabels[s]; ok {
		return label
	}

	words := strings.Split(string(s), "-")
	for i, word := range words {
		if word == "" || (i > 0 && minorWords[word]) {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
