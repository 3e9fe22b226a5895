package orderControllers

import (
	"errors"
	"strings"

	"github.com/trendyware/storefront-api/models"
)

// transitions is the order state machine. A status maps to the set of states
// reachable from it; terminal states map to nothing.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPendingPayment: {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:           {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:        {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:      nil,
	models.OrderStatusCancelled:      nil,
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a request string to a known status.
func ParseOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPendingPayment):
		return models.OrderStatusPendingPayment, nil
	case string(models.OrderStatusPaid):
		return models.OrderStatusPaid, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusCompleted):
		return models.OrderStatusCompleted, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}
