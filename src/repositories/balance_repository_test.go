package repositories_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/repositories"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestApplyDeltaLocksExistingRow(t *testing.T) {
	db, mock := newMockDB(t)

	orgID := uuid.New()
	cost := decimal.NewFromInt(500)

	mock.ExpectQuery(`SELECT \* FROM "warehouse_balances" WHERE organization_id = \$1 AND item_id = \$2 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "organization_id", "item_id", "rolls_on_hand", "meters_on_hand",
			"qty_on_hand", "total_cost", "cost_per_meter",
		}).AddRow(10, orgID, 1, "2", "100", 0, "50000", &cost))

	mock.ExpectExec(`UPDATE "warehouse_balances" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	bal, err := repositories.ApplyDelta[models.WarehouseBalance](db, orgID, 1,
		models.Delta{Meters: decimal.NewFromInt(-40), TotalCost: decimal.NewFromInt(-18000)})
	require.NoError(t, err)

	assert.True(t, bal.MetersOnHand.Equal(decimal.NewFromInt(60)))
	assert.True(t, bal.TotalCost.Equal(decimal.NewFromInt(32000)))
	require.NotNil(t, bal.CostPerMeter)
	assert.True(t, bal.CostPerMeter.Equal(decimal.NewFromFloat(533.3333)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalanceMissingRowIsZero(t *testing.T) {
	db, mock := newMockDB(t)

	orgID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE organization_id = \$1 AND item_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	bal, err := repositories.GetBalance[models.InventoryBalance](db, orgID, 9)
	require.NoError(t, err)

	assert.Equal(t, orgID, bal.OrganizationID)
	assert.Equal(t, uint(9), bal.ItemID)
	assert.Equal(t, 0, bal.QtyOnHand)
	assert.Nil(t, bal.CostPerUnit)

	assert.NoError(t, mock.ExpectationsWereMet())
}
