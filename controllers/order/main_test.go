package orderControllers

import (
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordingDispatcher captures notification calls without delivering anything.
type recordingDispatcher struct {
	mu            sync.Mutex
	confirmations []uint
	shipping      []uint
	cancellations []uint
}

func (d *recordingDispatcher) OrderConfirmation(order *models.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmations = append(d.confirmations, order.ID)
}

func (d *recordingDispatcher) ShippingUpdate(order *models.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shipping = append(d.shipping, order.ID)
}

func (d *recordingDispatcher) OrderCancellation(order *models.Order, reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancellations = append(d.cancellations, order.ID)
}

func (d *recordingDispatcher) shippedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shipping)
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func newTestController(t *testing.T) (*Controller, sqlmock.Sqlmock, *recordingDispatcher) {
	t.Helper()
	db, mock := newTestDB(t)
	rec := &recordingDispatcher{}
	ctl := NewController(db, zaptest.NewLogger(t), rec, nil, nil, 30*time.Minute)
	return ctl, mock, rec
}

func orderColumns() []string {
	return []string{
		"id", "user_id", "guest_email", "subtotal_amount", "shipping_cost",
		"total_amount", "currency", "status", "carrier_name", "tracking_number",
		"tracking_url", "cancel_reason", "order_ref", "created_at", "updated_at",
	}
}

func orderRow(id uint, userID interface{}, status models.OrderStatus, total float64) *sqlmock.Rows {
	return sqlmock.NewRows(orderColumns()).AddRow(
		id, userID, "", total, 0.0, total, "USD", string(status),
		"", "", "", "", "20250101120000-test-ref", time.Now(), time.Now(),
	)
}

const selectOrderForUpdate = `SELECT \* FROM "orders" WHERE id = \$1 .+FOR UPDATE`
