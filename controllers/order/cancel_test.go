package orderControllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trendyware/storefront-api/models"
)

func itemColumns() []string {
	return []string{"id", "order_id", "product_id", "quantity", "unit_price", "weight"}
}

// Scenario: a paid $50 order with two lines is cancelled. The wallet is
// credited once, one refund ledger row is written, and both product stocks
// are restored by relative increments.
func TestCancelOrder_PaidOrderRefundsAndRestocks(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(1, "u1", models.OrderStatusPaid, 50.00))
	mock.ExpectExec(`UPDATE "orders" SET "cancel_reason"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "profiles" SET "balance"=balance \+ \$1 WHERE user_id = \$2`).
		WithArgs(50.00, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(10, 1, 1, 3, 10.00, 0.5).
			AddRow(11, 1, 2, 1, 20.00, 0.2))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1 WHERE id = \$2`).
		WithArgs(3, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1 WHERE id = \$2`).
		WithArgs(1, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := ctl.CancelOrder(context.Background(), 1, "changed my mind", Caller{UserID: "u1"})

	assert.True(t, res.Success)
	assert.Equal(t, MsgOrderCancelled, res.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Scenario: cancelling an unpaid order restores stock but issues no refund —
// there is no money to return.
func TestCancelOrder_PendingOrderRestocksWithoutRefund(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(2, "u1", models.OrderStatusPendingPayment, 20.00))
	mock.ExpectExec(`UPDATE "orders" SET "cancel_reason"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(20, 2, 3, 2, 10.00, 0.3))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1 WHERE id = \$2`).
		WithArgs(2, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := ctl.CancelOrder(context.Background(), 2, "", Caller{UserID: "u1"})

	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Lines whose product has been deleted are skipped during restoration; the
// refund still applies in full.
func TestCancelOrder_DanglingProductReferenceSkipped(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(4, "u1", models.OrderStatusPaid, 35.00))
	mock.ExpectExec(`UPDATE "orders" SET "cancel_reason"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "profiles" SET "balance"=balance \+ \$1 WHERE user_id = \$2`).
		WithArgs(35.00, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(30, 4, nil, 2, 10.00, 0.1).
			AddRow(31, 4, 5, 1, 15.00, 0.1))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1 WHERE id = \$2`).
		WithArgs(1, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := ctl.CancelOrder(context.Background(), 4, "", Caller{UserID: "u1"})

	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A refund for a user without a wallet row creates the profile with the
// refunded amount.
func TestCancelOrder_CreatesProfileWhenMissing(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(6, "u9", models.OrderStatusPaid, 12.00))
	mock.ExpectExec(`UPDATE "orders" SET "cancel_reason"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "profiles" SET "balance"=balance \+ \$1 WHERE user_id = \$2`).
		WithArgs(12.00, "u9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "profiles"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns()))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := ctl.CancelOrder(context.Background(), 6, "", Caller{UserID: "u9"})

	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrder_AlreadyCancelledRejected(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(1, "u1", models.OrderStatusCancelled, 50.00))
	mock.ExpectRollback()

	res := ctl.CancelOrder(context.Background(), 1, "", Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgAlreadyCancelled, res.Message)
	assert.Equal(t, http.StatusConflict, res.HTTPStatus())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrder_CompletedOrderRejected(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(1, "u1", models.OrderStatusCompleted, 50.00))
	mock.ExpectRollback()

	res := ctl.CancelOrder(context.Background(), 1, "", Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgCompletedNoCancel, res.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrder_NotFound(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(sqlmock.NewRows(orderColumns()))
	mock.ExpectRollback()

	res := ctl.CancelOrder(context.Background(), 42, "", SystemCaller)

	assert.False(t, res.Success)
	assert.Equal(t, MsgOrderNotFound, res.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Two cancellations of the same order serialize on the row lock: the first
// commits the refund, the second observes status=cancelled and is rejected
// with no writes.
func TestCancelOrder_SecondCancellationRejected(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	// First call commits the full cancellation.
	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(1, "u1", models.OrderStatusPaid, 50.00))
	mock.ExpectExec(`UPDATE "orders" SET "cancel_reason"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "profiles" SET "balance"=balance \+ \$1 WHERE user_id = \$2`).
		WithArgs(50.00, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns()))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Second call sees the committed cancel under the lock and rolls back.
	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(1, "u1", models.OrderStatusCancelled, 50.00))
	mock.ExpectRollback()

	first := ctl.CancelOrder(context.Background(), 1, "", Caller{UserID: "u1"})
	second := ctl.CancelOrder(context.Background(), 1, "", Caller{UserID: "u1"})

	assert.True(t, first.Success)
	assert.False(t, second.Success)
	assert.Equal(t, MsgAlreadyCancelled, second.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failed stock restoration rolls back the whole unit: no cancel, no refund.
func TestCancelOrder_RollbackOnRestockFailure(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(5, "u1", models.OrderStatusPaid, 50.00))
	mock.ExpectExec(`UPDATE "orders" SET "cancel_reason"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "profiles" SET "balance"=balance \+ \$1 WHERE user_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(50, 5, 7, 1, 50.00, 1.0))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1 WHERE id = \$2`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	res := ctl.CancelOrder(context.Background(), 5, "", Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgPersistenceFailure, res.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}
