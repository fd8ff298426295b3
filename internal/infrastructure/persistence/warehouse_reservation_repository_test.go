package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
)

func newHeldItem(t *testing.T) *warehouse.Item {
	t.Helper()
	item, err := warehouse.NewItem("SF-2", "Sofa frame", "pcs")
	require.NoError(t, err)
	require.NoError(t, item.Receive(decimal.NewFromInt(10)))
	require.NoError(t, item.Reserve(decimal.NewFromInt(4)))
	return item
}

func TestGormWarehouseReservationRepository_CreateWithItem(t *testing.T) {
	t.Run("writes item and reservation in one transaction", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseReservationRepository(db)

		item := newHeldItem(t)
		r, err := warehouse.NewReservation(item.ID, decimal.NewFromInt(4), "kitchen project")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "warehouse_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "warehouse_reservations"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateWithItem(context.Background(), r, item))
		assert.Equal(t, 2, item.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the stock hold when the insert fails", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseReservationRepository(db)

		item := newHeldItem(t)
		r, err := warehouse.NewReservation(item.ID, decimal.NewFromInt(4), "kitchen project")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "warehouse_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "warehouse_reservations"`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err = repo.CreateWithItem(context.Background(), r, item)

		require.Error(t, err)
		assert.Equal(t, 1, item.GetVersion(), "version stays put when the transaction rolls back")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWarehouseReservationRepository_SaveWithItem(t *testing.T) {
	newReleasedPair := func(t *testing.T) (*warehouse.Reservation, *warehouse.Item) {
		t.Helper()
		item := newHeldItem(t)
		r, err := warehouse.NewReservation(item.ID, decimal.NewFromInt(4), "kitchen project")
		require.NoError(t, err)
		require.NoError(t, r.Release())
		require.NoError(t, item.ConsumeReserved(decimal.NewFromInt(4)))
		return r, item
	}

	t.Run("commits item, reservation, and ledger entry together", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseReservationRepository(db)

		r, item := newReleasedPair(t)
		entry, err := warehouse.NewTransaction(item.ID, warehouse.TransactionTypeOut, decimal.NewFromInt(4), item.Quantity, "kitchen project")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "warehouse_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "warehouse_reservations" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "warehouse_transactions"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SaveWithItem(context.Background(), r, item, entry))
		assert.Equal(t, 2, item.GetVersion())
		assert.Equal(t, 2, r.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the item write on reservation conflict", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseReservationRepository(db)

		r, item := newReleasedPair(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "warehouse_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "warehouse_reservations" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithItem(context.Background(), r, item, nil)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, item.GetVersion())
		assert.Equal(t, 1, r.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
