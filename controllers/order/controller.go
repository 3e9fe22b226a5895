package orderControllers

import (
	"context"
	"time"

	"github.com/trendyware/storefront-api/cache"
	"github.com/trendyware/storefront-api/models"
	"github.com/trendyware/storefront-api/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Controller owns the order lifecycle: checkout, payment confirmation,
// cancellation/refund, shipping updates and status queries. Every financial
// mutation runs as a single database transaction; notifications and view
// invalidation happen only after commit.
type Controller struct {
	db             *gorm.DB
	log            *zap.Logger
	notify         notify.Dispatcher
	views          *cache.OrderViews
	hub            *EventHub
	reservationTTL time.Duration
}

func NewController(
	db *gorm.DB,
	log *zap.Logger,
	dispatcher notify.Dispatcher,
	views *cache.OrderViews,
	hub *EventHub,
	reservationTTL time.Duration,
) *Controller {
	return &Controller{
		db:             db,
		log:            log,
		notify:         dispatcher,
		views:          views,
		hub:            hub,
		reservationTTL: reservationTTL,
	}
}

// Caller is the authenticated principal acting on an order. System callers
// (payment webhook, admin console) bypass the ownership check.
type Caller struct {
	UserID string
	System bool
}

var SystemCaller = Caller{System: true}

func (caller Caller) owns(order *models.Order) bool {
	if caller.System {
		return true
	}
	return order.UserID != nil && *order.UserID == caller.UserID
}

// afterCommit runs the best-effort side effects of a committed mutation:
// cached view invalidation, the WebSocket change feed, and an optional
// notification dispatched off the request goroutine.
func (ctl *Controller) afterCommit(ctx context.Context, order *models.Order, send func()) {
	ctl.views.Invalidate(ctx, order.UserID)
	if ctl.hub != nil {
		ctl.hub.BroadcastOrderChange(order.ID, order.Status)
	}
	if send != nil {
		go send()
	}
}
