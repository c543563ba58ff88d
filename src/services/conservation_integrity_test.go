package services_test

import (
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/config"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/repositories"
	"github.com/apaltseff-maker/igla-app-sub000/src/services"
)

var (
	testDB     *gorm.DB
	testOrg1ID uuid.UUID
	testOrg2ID uuid.UUID

	testWorker1 *models.Worker
	testWorker2 *models.Worker
	testProduct models.Product
	testColor   models.Color
	testParty   models.Counterparty

	warehouseSvc  *services.WarehouseService
	inventorySvc  *services.InventoryService
	productionSvc *services.ProductionService
	invoiceSvc    *services.InvoiceService
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func setupTestDB(dsn string) *gorm.DB {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic("failed to connect database")
	}

	// Auto migrate
	db.AutoMigrate(
		&models.Organization{},
		&models.Worker{},
		&models.Counterparty{},
		&models.Product{},
		&models.Color{},
		&models.PriceMemory{},
		&models.Cut{},
		&models.Bundle{},
		&models.Assignment{},
		&models.PackagingEvent{},
		&models.WarehouseItem{},
		&models.WarehouseMovement{},
		&models.WarehouseBalance{},
		&models.InventoryItem{},
		&models.InventoryMovement{},
		&models.InventoryBalance{},
		&models.Invoice{},
		&models.InvoiceLine{},
	)

	return db
}

func cleanupTestDB(db *gorm.DB) {
	db.Exec(`TRUNCATE organizations, workers, counterparties, products, colors,
		price_memories, cuts, bundles, assignments, packaging_events,
		warehouse_items, warehouse_movements, warehouse_balances,
		inventory_items, inventory_movements, inventory_balances,
		invoices, invoice_lines RESTART IDENTITY CASCADE`)
}

func setupTestData(db *gorm.DB) {
	testOrg1ID = uuid.New()
	testOrg2ID = uuid.New()

	orgs := []models.Organization{
		{ID: testOrg1ID, Name: "Test Workshop 1", Code: "WS001"},
		{ID: testOrg2ID, Name: "Test Workshop 2", Code: "WS002"},
	}
	for _, org := range orgs {
		db.Create(&org)
	}

	testWorker1 = &models.Worker{OrganizationID: testOrg1ID, Code: "125", FullName: "Worker One"}
	testWorker2 = &models.Worker{OrganizationID: testOrg1ID, Code: "126", FullName: "Worker Two"}
	db.Create(testWorker1)
	db.Create(testWorker2)

	testProduct = models.Product{OrganizationID: testOrg1ID, Name: "Hoodie", BaseRate: d("550")}
	db.Create(&testProduct)

	testColor = models.Color{OrganizationID: testOrg1ID, Name: "black"}
	db.Create(&testColor)

	testParty = models.Counterparty{OrganizationID: testOrg1ID, Name: "Test Customer"}
	db.Create(&testParty)
}

func TestMain(m *testing.M) {
	dsn := os.Getenv("LEDGER_TEST_DSN")
	if dsn == "" {
		fmt.Println("LEDGER_TEST_DSN not set, skipping integration tests")
		os.Exit(m.Run())
	}

	fmt.Println("Setting up test database...")
	testDB = setupTestDB(dsn)

	cleanupTestDB(testDB)
	setupTestData(testDB)

	lg := config.GetLogger()
	warehouseSvc = &services.WarehouseService{
		DB:   testDB,
		Repo: &repositories.WarehouseRepository{DB: testDB},
		Log:  lg,
	}
	inventorySvc = &services.InventoryService{
		DB:   testDB,
		Repo: &repositories.InventoryRepository{DB: testDB},
		Log:  lg,
	}
	productionSvc = &services.ProductionService{
		DB:        testDB,
		Repo:      &repositories.ProductionRepository{DB: testDB},
		Warehouse: warehouseSvc,
		Log:       lg,
	}
	invoiceSvc = &services.InvoiceService{
		DB:        testDB,
		Repo:      &repositories.InvoiceRepository{DB: testDB},
		Inventory: inventorySvc,
		Log:       lg,
	}

	code := m.Run()

	cleanupTestDB(testDB)
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("LEDGER_TEST_DSN not set")
	}
}

func createFabricItem(t *testing.T, name string, meters, cost string) *models.WarehouseItem {
	t.Helper()
	item, err := warehouseSvc.CreateItem(testOrg1ID, models.ItemKindFabric, name, "m")
	require.NoError(t, err)

	_, err = warehouseSvc.CreateMovement(services.CreateWarehouseMovementRequest{
		OrganizationID: testOrg1ID,
		ItemID:         item.ID,
		Reason:         models.ReasonReceipt,
		Rolls:          d("5"),
		Meters:         d(meters),
		TotalCost:      d(cost),
		MovementDate:   time.Now(),
		CreatedBy:      "tester",
	})
	require.NoError(t, err)
	return item
}

func recordCut(t *testing.T, number, lot string, capacity int, fabric *models.WarehouseItem) *models.Bundle {
	t.Helper()
	req := services.RecordCutRequest{
		OrganizationID: testOrg1ID,
		Number:         number,
		CutDate:        time.Now(),
		CreatedBy:      "tester",
		Bundles: []services.BundleSpec{{
			LotNumber: lot,
			ProductID: testProduct.ID,
			ColorID:   testColor.ID,
			Size:      "M",
			Capacity:  capacity,
		}},
	}
	if fabric != nil {
		req.FabricItemID = &fabric.ID
		req.RollsUsed = d("2")
		req.MetersUsed = d("100")
		req.FabricCost = d("50000")
	}

	_, err := productionSvc.RecordCut(req)
	require.NoError(t, err)

	repo := &repositories.ProductionRepository{DB: testDB}
	bundle, err := repo.GetBundleByLot(testOrg1ID, lot)
	require.NoError(t, err)
	return bundle
}

func assign(t *testing.T, bundle *models.Bundle, worker *models.Worker, qty int) (*models.Assignment, error) {
	t.Helper()
	return productionSvc.CreateAssignment(services.CreateAssignmentRequest{
		OrganizationID: testOrg1ID,
		BundleID:       bundle.ID,
		WorkerID:       worker.ID,
		Qty:            qty,
		AssignedAt:     time.Now(),
	})
}

func pack(t *testing.T, bundle *models.Bundle, worker *models.Worker, packed, defect int) (*models.PackagingEvent, error) {
	t.Helper()
	return productionSvc.CreatePackagingEvent(services.CreatePackagingRequest{
		OrganizationID: testOrg1ID,
		BundleID:       bundle.ID,
		WorkerID:       worker.ID,
		PackedQty:      packed,
		DefectQty:      defect,
		PackedAt:       time.Now(),
	})
}

// ============ SCENARIO 1: ASSIGNMENT CAPACITY ============
func TestAssignmentCapacity(t *testing.T) {
	requireDB(t)

	fabric := createFabricItem(t, "Footer 330g SC1", "250", "125000")
	bundle := recordCut(t, "CUT-SC1", "1001", 100, fabric)

	t.Run("cut issues fabric from the warehouse", func(t *testing.T) {
		bal, err := warehouseSvc.GetBalance(testOrg1ID, fabric.ID)
		require.NoError(t, err)
		assert.True(t, bal.MetersOnHand.Equal(d("150")))
		assert.True(t, bal.TotalCost.Equal(d("75000")))
	})

	t.Run("assignments fill capacity exactly", func(t *testing.T) {
		_, err := assign(t, bundle, testWorker1, 60)
		require.NoError(t, err)
		_, err = assign(t, bundle, testWorker2, 40)
		require.NoError(t, err)
	})

	t.Run("one piece over capacity is rejected", func(t *testing.T) {
		_, err := assign(t, bundle, testWorker1, 1)
		assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
	})

	t.Run("party number resolves back to the bundle", func(t *testing.T) {
		b, w, err := productionSvc.ResolvePartyNumber(testOrg1ID, "1001-125")
		require.NoError(t, err)
		assert.Equal(t, bundle.ID, b.ID)
		assert.Equal(t, testWorker1.ID, w.ID)
	})
}

// ============ SCENARIO 2: AUTO-ASSIGNMENT FROM PACKAGING ============
func TestAutoAssignmentInference(t *testing.T) {
	requireDB(t)

	bundle := recordCut(t, "CUT-SC2", "1002", 100, nil)

	_, err := assign(t, bundle, testWorker1, 30)
	require.NoError(t, err)

	t.Run("closing past the assigned quantity infers the shortfall", func(t *testing.T) {
		_, err := pack(t, bundle, testWorker1, 50, 0)
		require.NoError(t, err)

		var auto models.Assignment
		err = testDB.Where("bundle_id = ? AND worker_id = ? AND source = ?",
			bundle.ID, testWorker1.ID, models.SourceAutoFromPackaging).First(&auto).Error
		require.NoError(t, err)
		assert.Equal(t, 20, auto.Qty)
	})

	t.Run("inference never pushes assigned past capacity", func(t *testing.T) {
		// 50 assigned so far; packing 60 unassigned pieces would need
		// assigned = 110 > 100.
		_, err := pack(t, bundle, testWorker2, 60, 0)
		assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
	})

	t.Run("closing the remainder completes the bundle", func(t *testing.T) {
		_, err := pack(t, bundle, testWorker2, 48, 2)
		require.NoError(t, err)

		overview, err := productionSvc.GetBundleOverview(testOrg1ID, bundle.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BundleComplete, overview.Status)
		assert.Equal(t, 100, overview.Totals.Assigned)
		assert.Equal(t, 100, overview.Totals.Closed)
	})
}

// ============ SCENARIO 3: ASSIGNMENT GUARDS ============
func TestAssignmentGuards(t *testing.T) {
	requireDB(t)

	bundle := recordCut(t, "CUT-SC3", "1003", 50, nil)

	assignment, err := assign(t, bundle, testWorker1, 40)
	require.NoError(t, err)
	_, err = pack(t, bundle, testWorker1, 30, 0)
	require.NoError(t, err)

	t.Run("quantity cannot drop below closed", func(t *testing.T) {
		qty := 20
		err := productionSvc.UpdateAssignment(services.UpdateAssignmentRequest{
			OrganizationID: testOrg1ID,
			AssignmentID:   assignment.ID,
			Qty:            &qty,
		})
		assert.True(t, errors.Is(err, apperrors.ErrBelowClosed))
	})

	t.Run("reassignment after packaging is rejected", func(t *testing.T) {
		err := productionSvc.UpdateAssignment(services.UpdateAssignmentRequest{
			OrganizationID: testOrg1ID,
			AssignmentID:   assignment.ID,
			WorkerID:       &testWorker2.ID,
		})
		assert.True(t, errors.Is(err, apperrors.ErrAlreadyClosed))
	})

	t.Run("deletion that would orphan closed quantity is rejected", func(t *testing.T) {
		err := productionSvc.DeleteAssignment(testOrg1ID, assignment.ID)
		assert.True(t, errors.Is(err, apperrors.ErrBelowClosed))
	})

	t.Run("quantity can still grow within capacity", func(t *testing.T) {
		qty := 50
		err := productionSvc.UpdateAssignment(services.UpdateAssignmentRequest{
			OrganizationID: testOrg1ID,
			AssignmentID:   assignment.ID,
			Qty:            &qty,
		})
		require.NoError(t, err)
	})
}

// ============ SCENARIO 4: MOVEMENT CORRECTION ============
func TestMovementCorrection(t *testing.T) {
	requireDB(t)

	item, err := warehouseSvc.CreateItem(testOrg1ID, models.ItemKindFabric, "Kulirka SC4", "m")
	require.NoError(t, err)

	movement, err := warehouseSvc.CreateMovement(services.CreateWarehouseMovementRequest{
		OrganizationID: testOrg1ID,
		ItemID:         item.ID,
		Reason:         models.ReasonReceipt,
		Rolls:          d("2"),
		Meters:         d("100"),
		TotalCost:      d("50000"),
		MovementDate:   time.Now(),
		CreatedBy:      "tester",
	})
	require.NoError(t, err)

	var replacement *models.WarehouseMovement

	t.Run("edit reverses the old delta and applies the new one", func(t *testing.T) {
		replacement, err = warehouseSvc.UpdateMovement(services.UpdateWarehouseMovementRequest{
			MovementID:     movement.ID,
			OrganizationID: testOrg1ID,
			Reason:         models.ReasonReceipt,
			Rolls:          d("2"),
			Meters:         d("80"),
			TotalCost:      d("40000"),
			MovementDate:   time.Now(),
			ChangedBy:      "corrector",
		})
		require.NoError(t, err)

		bal, err := warehouseSvc.GetBalance(testOrg1ID, item.ID)
		require.NoError(t, err)
		assert.True(t, bal.MetersOnHand.Equal(d("80")))
		assert.True(t, bal.TotalCost.Equal(d("40000")))
		require.NotNil(t, bal.CostPerMeter)
		assert.True(t, bal.CostPerMeter.Equal(d("500")))
	})

	t.Run("superseded row is soft-deleted, replacement is live", func(t *testing.T) {
		movements, total, err := warehouseSvc.GetMovements(testOrg1ID, item.ID,
			time.Time{}, time.Time{}, 1, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, replacement.ID, movements[0].ID)

		var deleted models.WarehouseMovement
		err = testDB.Unscoped().Where("id = ?", movement.ID).First(&deleted).Error
		require.NoError(t, err)
		require.NotNil(t, deleted.DeletedBy)
		assert.Equal(t, "corrector", *deleted.DeletedBy)
	})

	t.Run("deletion reverses the remaining delta", func(t *testing.T) {
		err := warehouseSvc.DeleteMovement(testOrg1ID, replacement.ID, "corrector")
		require.NoError(t, err)

		bal, err := warehouseSvc.GetBalance(testOrg1ID, item.ID)
		require.NoError(t, err)
		assert.True(t, bal.MetersOnHand.IsZero())
		assert.True(t, bal.TotalCost.IsZero())
		assert.Nil(t, bal.CostPerMeter)
	})

	t.Run("deletion that would leave stock negative is rejected", func(t *testing.T) {
		receipt, err := warehouseSvc.CreateMovement(services.CreateWarehouseMovementRequest{
			OrganizationID: testOrg1ID,
			ItemID:         item.ID,
			Reason:         models.ReasonReceipt,
			Meters:         d("50"),
			TotalCost:      d("25000"),
			MovementDate:   time.Now(),
			CreatedBy:      "tester",
		})
		require.NoError(t, err)
		_, err = warehouseSvc.CreateMovement(services.CreateWarehouseMovementRequest{
			OrganizationID: testOrg1ID,
			ItemID:         item.ID,
			Reason:         models.ReasonIssue,
			Meters:         d("-30"),
			TotalCost:      d("-15000"),
			MovementDate:   time.Now(),
			CreatedBy:      "tester",
		})
		require.NoError(t, err)

		err = warehouseSvc.DeleteMovement(testOrg1ID, receipt.ID, "corrector")
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientStock))
	})
}

// ============ SCENARIO 5: INVOICE RECONCILIATION ============
func TestInvoiceReconciliation(t *testing.T) {
	requireDB(t)

	bundle := recordCut(t, "CUT-SC5", "1005", 100, nil)
	_, err := assign(t, bundle, testWorker1, 100)
	require.NoError(t, err)
	_, err = pack(t, bundle, testWorker1, 90, 5)
	require.NoError(t, err)

	accessory, err := inventorySvc.CreateItem(testOrg1ID, "ZIP-01", "Zipper 60cm", "pcs")
	require.NoError(t, err)
	_, err = inventorySvc.CreateMovement(services.CreateInventoryMovementRequest{
		OrganizationID: testOrg1ID,
		ItemID:         accessory.ID,
		Reason:         models.ReasonReceipt,
		Qty:            500,
		TotalCost:      d("25000"),
		MovementDate:   time.Now(),
		CreatedBy:      "tester",
	})
	require.NoError(t, err)

	t.Run("preview aggregates production per position", func(t *testing.T) {
		rows, err := invoiceSvc.PreviewByCut(testOrg1ID, bundle.CutID, testParty.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 100, rows[0].PlannedQty)
		assert.Equal(t, 90, rows[0].FinalQty)
		assert.Equal(t, 5, rows[0].DefectQty)
		assert.Nil(t, rows[0].SuggestedPrice)
	})

	t.Run("missing price blocks the invoice unless allowed", func(t *testing.T) {
		_, err := invoiceSvc.CreateOrUpdateInvoice(services.UpsertInvoiceRequest{
			OrganizationID: testOrg1ID,
			CutID:          bundle.CutID,
			CounterpartyID: testParty.ID,
			Number:         "INV-SC5",
		})
		assert.True(t, errors.Is(err, apperrors.ErrMissingPrice))
	})

	var invoice *models.Invoice

	t.Run("draft invoice bills planned quantities", func(t *testing.T) {
		invoice, err = invoiceSvc.CreateOrUpdateInvoice(services.UpsertInvoiceRequest{
			OrganizationID: testOrg1ID,
			CutID:          bundle.CutID,
			CounterpartyID: testParty.ID,
			Number:         "INV-SC5",
			Prices: []services.PositionPrice{
				{ProductID: testProduct.ID, ColorID: testColor.ID, Price: d("550")},
			},
		})
		require.NoError(t, err)

		loaded, err := invoiceSvc.GetInvoice(testOrg1ID, invoice.ID)
		require.NoError(t, err)
		assert.True(t, loaded.Total.Equal(d("55000")), loaded.Total.String())
	})

	t.Run("agreed price lands in price memory", func(t *testing.T) {
		rows, err := invoiceSvc.PreviewByCut(testOrg1ID, bundle.CutID, testParty.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].SuggestedPrice)
		assert.True(t, rows[0].SuggestedPrice.Equal(d("550")))
	})

	var line models.InvoiceLine

	t.Run("inventory line issues stock", func(t *testing.T) {
		_, err := invoiceSvc.UpdateLines(testOrg1ID, invoice.ID, []services.LineDiff{{
			LineType:        models.LineTypeInventory,
			Description:     "Zippers",
			InventoryItemID: &accessory.ID,
			Qty:             200,
			Price:           d("12"),
		}}, "tester")
		require.NoError(t, err)

		bal, err := inventorySvc.GetBalance(testOrg1ID, accessory.ID)
		require.NoError(t, err)
		assert.Equal(t, 300, bal.QtyOnHand)

		loaded, err := invoiceSvc.GetInvoice(testOrg1ID, invoice.ID)
		require.NoError(t, err)
		assert.True(t, loaded.Total.Equal(d("57400")), loaded.Total.String())

		for _, l := range loaded.Lines {
			if l.LineType == models.LineTypeInventory {
				line = l
			}
		}
		require.NotEqual(t, uuid.Nil, line.ID)
	})

	t.Run("shrinking the line returns the exact difference", func(t *testing.T) {
		_, err := invoiceSvc.UpdateLines(testOrg1ID, invoice.ID, []services.LineDiff{{
			LineID:          &line.ID,
			LineType:        models.LineTypeInventory,
			Description:     "Zippers",
			InventoryItemID: &accessory.ID,
			Qty:             150,
			Price:           d("12"),
		}}, "tester")
		require.NoError(t, err)

		bal, err := inventorySvc.GetBalance(testOrg1ID, accessory.ID)
		require.NoError(t, err)
		assert.Equal(t, 350, bal.QtyOnHand)
	})

	t.Run("deleting the line returns the full quantity", func(t *testing.T) {
		_, err := invoiceSvc.UpdateLines(testOrg1ID, invoice.ID, []services.LineDiff{{
			LineID: &line.ID,
			Delete: true,
		}}, "tester")
		require.NoError(t, err)

		bal, err := inventorySvc.GetBalance(testOrg1ID, accessory.ID)
		require.NoError(t, err)
		assert.Equal(t, 500, bal.QtyOnHand)
	})

	t.Run("final invoice bills packed quantities", func(t *testing.T) {
		final, err := invoiceSvc.SetStatus(testOrg1ID, invoice.ID, models.InvoiceFinal)
		require.NoError(t, err)
		assert.True(t, final.Total.Equal(d("49500")), final.Total.String())
	})
}

// ============ SCENARIO 6: TENANT ISOLATION ============
func TestTenantIsolation(t *testing.T) {
	requireDB(t)

	bundle := recordCut(t, "CUT-SC6", "1006", 10, nil)

	t.Run("another organization cannot see the bundle", func(t *testing.T) {
		_, err := productionSvc.GetBundleOverview(testOrg2ID, bundle.ID)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("another organization cannot assign against it", func(t *testing.T) {
		_, err := productionSvc.CreateAssignment(services.CreateAssignmentRequest{
			OrganizationID: testOrg2ID,
			BundleID:       bundle.ID,
			WorkerID:       testWorker1.ID,
			Qty:            5,
			AssignedAt:     time.Now(),
		})
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}
