package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/smartorder/backend/config"
	"github.com/smartorder/backend/live"
	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/router"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	// Initialize logger
	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Seed data demo kalau database masih kosong
	if err := config.SeedDemoData(db); err != nil {
		utils.ErrorLogger.Printf("Seed demo data failed: %v", err)
	}

	// Document store + change monitor untuk snapshot real-time
	st := store.New(db)
	monitor := store.NewChangeMonitor(st)
	monitor.Interval = 500 * time.Millisecond
	monitor.Broadcast = live.BroadcastSnapshot
	monitor.Start()
	defer monitor.Stop()

	// Redis opsional untuk cache respon menu
	rdb := config.NewRedisClient()

	// Setup router
	r := router.SetupRouter(db, st, rdb)

	// Set trusted proxies
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.User{},
		&models.MenuItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.HelpRequest{},
		&models.Rating{},
		&models.DocChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
