package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormWarehouseItemRepository_FindByID(t *testing.T) {
	t.Run("finds existing item", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseItemRepository(db)

		itemID := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "sku", "name", "quantity", "reserved_quantity", "version",
		}).AddRow(
			itemID, "CH-100", "Oak chair",
			decimal.NewFromInt(40), decimal.NewFromInt(5), 3,
		)

		mock.ExpectQuery(`SELECT \* FROM "warehouse_items" WHERE id = \$1`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)

		require.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "CH-100", item.SKU)
		assert.Equal(t, 3, item.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseItemRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "warehouse_items" WHERE id = \$1`).
			WithArgs(itemID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), itemID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWarehouseItemRepository_Save(t *testing.T) {
	newVersionedItem := func(t *testing.T) *warehouse.Item {
		t.Helper()
		item, err := warehouse.NewItem("TB-7", "Dining table", "pcs")
		require.NoError(t, err)
		require.NoError(t, item.Receive(decimal.NewFromInt(10)))
		return item
	}

	t.Run("updates row and bumps the version once", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseItemRepository(db)

		item := newVersionedItem(t)
		require.Equal(t, 1, item.GetVersion(), "mutators do not touch the version")

		mock.ExpectExec(`UPDATE "warehouse_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), item)

		require.NoError(t, err)
		assert.Equal(t, 2, item.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when another writer won", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseItemRepository(db)

		item := newVersionedItem(t)

		mock.ExpectExec(`UPDATE "warehouse_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), item)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, item.GetVersion(), "version stays put on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWarehouseItemRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound for missing item", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormWarehouseItemRepository(db)

		itemID := uuid.New()
		mock.ExpectExec(`DELETE FROM "warehouse_items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), itemID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
