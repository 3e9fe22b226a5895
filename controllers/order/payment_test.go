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

func TestConfirmPayment_Success(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(3, "u1", models.OrderStatusPendingPayment, 50.00))
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := ctl.ConfirmPayment(context.Background(), 3, Caller{UserID: "u1"})

	assert.True(t, res.Success)
	assert.Equal(t, MsgPaymentConfirmed, res.Message)
	assert.Equal(t, http.StatusOK, res.HTTPStatus())
	require.NoError(t, mock.ExpectationsWereMet())
}

// Scenario: repeated confirmation is a success no-op — no second ledger row,
// no status write.
func TestConfirmPayment_AlreadyPaidIsIdempotent(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(3, "u1", models.OrderStatusPaid, 50.00))
	mock.ExpectCommit()

	res := ctl.ConfirmPayment(context.Background(), 3, Caller{UserID: "u1"})

	assert.True(t, res.Success)
	assert.Equal(t, MsgAlreadyPaid, res.Message)
	assert.Equal(t, KindAlreadyProcessed, res.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_NotFound(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(sqlmock.NewRows(orderColumns()))
	mock.ExpectRollback()

	res := ctl.ConfirmPayment(context.Background(), 99, Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgOrderNotFound, res.Message)
	assert.Equal(t, http.StatusNotFound, res.HTTPStatus())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_OwnershipEnforced(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(3, "u2", models.OrderStatusPendingPayment, 50.00))
	mock.ExpectRollback()

	res := ctl.ConfirmPayment(context.Background(), 3, Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgUnauthorized, res.Message)
	assert.Equal(t, http.StatusForbidden, res.HTTPStatus())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_SystemCallerBypassesOwnership(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(3, "u2", models.OrderStatusPendingPayment, 50.00))
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := ctl.ConfirmPayment(context.Background(), 3, SystemCaller)

	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_CancelledOrderRejected(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(3, "u1", models.OrderStatusCancelled, 50.00))
	mock.ExpectRollback()

	res := ctl.ConfirmPayment(context.Background(), 3, Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgInvalidTransition, res.Message)
	assert.Equal(t, http.StatusConflict, res.HTTPStatus())
	require.NoError(t, mock.ExpectationsWereMet())
}

// Guest orders are confirmed without a ledger row: there is no wallet to tie
// the payment to.
func TestConfirmPayment_GuestOrderSkipsLedger(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(7, nil, models.OrderStatusPendingPayment, 20.00))
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "stock_reservations" WHERE order_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := ctl.ConfirmPayment(context.Background(), 7, SystemCaller)

	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_RollbackOnLedgerFailure(t *testing.T) {
	ctl, mock, _ := newTestController(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectOrderForUpdate).
		WillReturnRows(orderRow(3, "u1", models.OrderStatusPendingPayment, 50.00))
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	res := ctl.ConfirmPayment(context.Background(), 3, Caller{UserID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, MsgPersistenceFailure, res.Message)
	assert.Equal(t, http.StatusInternalServerError, res.HTTPStatus())
	require.NoError(t, mock.ExpectationsWereMet())
}
