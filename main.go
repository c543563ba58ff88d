package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/apaltseff-maker/igla-app-sub000/src/config"
	"github.com/apaltseff-maker/igla-app-sub000/src/handlers"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/repositories"
	"github.com/apaltseff-maker/igla-app-sub000/src/routes"
	"github.com/apaltseff-maker/igla-app-sub000/src/services"
)

func main() {
	db := config.InitDB()
	logger := config.GetLogger()

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

	// Insert sample data jika kosong
	if err := seedSampleData(db); err != nil {
		log.Printf("Failed to seed sample data: %v", err)
	}

	// Initialize repositories
	warehouseRepo := &repositories.WarehouseRepository{DB: db}
	inventoryRepo := &repositories.InventoryRepository{DB: db}
	productionRepo := &repositories.ProductionRepository{DB: db}
	invoiceRepo := &repositories.InvoiceRepository{DB: db}

	// Initialize services
	warehouseService := &services.WarehouseService{
		DB:   db,
		Repo: warehouseRepo,
		Log:  logger,
	}
	inventoryService := &services.InventoryService{
		DB:   db,
		Repo: inventoryRepo,
		Log:  logger,
	}
	productionService := &services.ProductionService{
		DB:        db,
		Repo:      productionRepo,
		Warehouse: warehouseService,
		Log:       logger,
	}
	invoiceService := &services.InvoiceService{
		DB:        db,
		Repo:      invoiceRepo,
		Inventory: inventoryService,
		Log:       logger,
	}

	// Initialize handlers
	warehouseHandler := &handlers.WarehouseHandler{Service: warehouseService}
	inventoryHandler := &handlers.InventoryHandler{Service: inventoryService}
	productionHandler := &handlers.ProductionHandler{Service: productionService}
	invoiceHandler := &handlers.InvoiceHandler{Service: invoiceService}

	// Setup router dengan recovery middleware
	router := gin.Default()

	api := router.Group("/api/v1")
	routes.RegisterWarehouseRoutes(api.Group("/warehouse"), warehouseHandler)
	routes.RegisterInventoryRoutes(api.Group("/inventory"), inventoryHandler)
	routes.RegisterProductionRoutes(api.Group("/production"), productionHandler)
	routes.RegisterInvoiceRoutes(api.Group("/invoices"), invoiceHandler)

	// Start server
	port := ":8080"

	if err := router.Run(port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func seedSampleData(db *gorm.DB) error {
	var orgCount int64
	db.Model(&models.Organization{}).Count(&orgCount)

	if orgCount == 0 {
		log.Println("🌱 Seeding sample organizations...")

		organizations := []models.Organization{
			{ID: mustParseUUID("b159a190-e72f-4295-853c-ddbbe19fa6f6"), Name: "Igla Workshop", Code: "IGLA-MAIN"},
			{ID: mustParseUUID("2003eacc-5f39-4f3d-94d7-6e01c1bebd6a"), Name: "Second Floor Line", Code: "IGLA-L2"},
		}

		for _, org := range organizations {
			if err := db.FirstOrCreate(&org, "id = ?", org.ID).Error; err != nil {
				return err
			}
		}
		log.Printf("✅ Seeded %d organizations", len(organizations))
	}

	mainOrg := mustParseUUID("b159a190-e72f-4295-853c-ddbbe19fa6f6")

	var workerCount int64
	db.Model(&models.Worker{}).Count(&workerCount)

	if workerCount == 0 {
		log.Println("🌱 Seeding sample workers...")

		workers := []models.Worker{
			{OrganizationID: mainOrg, Code: "125", FullName: "Aigerim S."},
			{OrganizationID: mainOrg, Code: "126", FullName: "Dana K."},
			{OrganizationID: mainOrg, Code: "131", FullName: "Saule M."},
		}

		for _, w := range workers {
			if err := db.FirstOrCreate(&w, "organization_id = ? AND code = ?", w.OrganizationID, w.Code).Error; err != nil {
				return err
			}
		}
		log.Printf("✅ Seeded %d workers", len(workers))
	}

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)

	if productCount == 0 {
		log.Println("🌱 Seeding sample catalog...")

		products := []models.Product{
			{OrganizationID: mainOrg, Name: "Hoodie oversize", BaseRate: decimal.NewFromInt(550)},
			{OrganizationID: mainOrg, Name: "T-shirt basic", BaseRate: decimal.NewFromInt(250)},
			{OrganizationID: mainOrg, Name: "Joggers fleece", BaseRate: decimal.NewFromInt(480)},
		}
		for _, p := range products {
			if err := db.FirstOrCreate(&p, "organization_id = ? AND name = ?", p.OrganizationID, p.Name).Error; err != nil {
				return err
			}
		}

		colors := []models.Color{
			{OrganizationID: mainOrg, Name: "black"},
			{OrganizationID: mainOrg, Name: "milk"},
			{OrganizationID: mainOrg, Name: "graphite"},
		}
		for _, cl := range colors {
			if err := db.FirstOrCreate(&cl, "organization_id = ? AND name = ?", cl.OrganizationID, cl.Name).Error; err != nil {
				return err
			}
		}
		log.Printf("✅ Seeded %d products and %d colors", len(products), len(colors))
	}

	var itemCount int64
	db.Model(&models.WarehouseItem{}).Count(&itemCount)

	if itemCount == 0 {
		log.Println("🌱 Seeding sample warehouse items...")

		items := []models.WarehouseItem{
			{OrganizationID: mainOrg, Kind: models.ItemKindFabric, Name: "Footer 3-thread 330g", Unit: "m"},
			{OrganizationID: mainOrg, Kind: models.ItemKindFabric, Name: "Kulirka 170g", Unit: "m"},
			{OrganizationID: mainOrg, Kind: models.ItemKindPackaging, Name: "Zip bag 30x40", Unit: "pcs"},
		}

		for _, item := range items {
			if err := db.FirstOrCreate(&item, "organization_id = ? AND name = ?", item.OrganizationID, item.Name).Error; err != nil {
				return err
			}
		}
		log.Printf("✅ Seeded %d warehouse items", len(items))
	}

	return nil
}

func mustParseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
