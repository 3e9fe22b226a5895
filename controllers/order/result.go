package orderControllers

import "net/http"

// FailureKind classifies operation outcomes. Internal error detail never
// reaches the caller; handlers log it and return a stable message instead.
type FailureKind int

const (
	KindNone FailureKind = iota
	KindAlreadyProcessed // repeated call on an already-applied mutation; success
	KindNotFound
	KindUnauthorized
	KindInvalidTransition
	KindConflict // state-dependent rejection, e.g. stock claimed by others
	KindValidation
	KindPersistence
)

// Stable user-facing message keys.
const (
	MsgOrderNotFound      = "order not found"
	MsgUnauthorized       = "you do not have access to this order"
	MsgPaymentConfirmed   = "payment confirmed"
	MsgAlreadyPaid        = "order already paid"
	MsgOrderCancelled     = "order cancelled"
	MsgAlreadyCancelled   = "order already cancelled"
	MsgCompletedNoCancel  = "cannot cancel a completed order"
	MsgInvalidTransition  = "invalid status transition"
	MsgTrackingUpdated    = "tracking info updated"
	MsgStatusUpdated      = "order status updated"
	MsgOrderPlaced        = "order placed successfully"
	MsgPersistenceFailure = "operation failed, please try again"
)

// Result is the structured outcome every lifecycle operation returns.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Kind    FailureKind `json:"-"`
}

func ok(msg string) Result {
	return Result{Success: true, Message: msg}
}

func already(msg string) Result {
	return Result{Success: true, Message: msg, Kind: KindAlreadyProcessed}
}

func fail(kind FailureKind, msg string) Result {
	return Result{Success: false, Message: msg, Kind: kind}
}

func persistenceFailure() Result {
	return fail(KindPersistence, MsgPersistenceFailure)
}

// HTTPStatus maps the outcome to a response code.
func (r Result) HTTPStatus() int {
	switch r.Kind {
	case KindNone, KindAlreadyProcessed:
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidTransition, KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
