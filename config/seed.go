package config

import (
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

// SeedDemoData mengisi satu restaurant demo dengan meja berkode dan menu
// kecil supaya flow scan -> cart -> order bisa dicoba tanpa setup manual.
// Tidak melakukan apa pun kalau sudah ada restaurant.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	restaurant := models.Restaurant{
		ID:   "R1",
		Name: "Smart Order Bistro",
		Tables: []models.Table{
			{TableID: "T1", Code: "R1_A1", Status: models.TableStatusFree},
			{TableID: "T2", Code: "R1_A2", Status: models.TableStatusFree},
			{TableID: "T3", Code: "R1_A3", Status: models.TableStatusFree},
		},
	}
	if err := db.Create(&restaurant).Error; err != nil {
		return err
	}

	menu := []models.MenuItem{
		{ID: "espresso", Name: "Espresso", Description: "Single shot", Price: 1.5, PriceFormatted: utils.FormatPrice(1.5), ImageName: "mock_espresso.png"},
		{ID: "cappuccino", Name: "Cappuccino", Description: "With steamed milk", Price: 2.8, PriceFormatted: utils.FormatPrice(2.8), ImageName: "mock_cappuccino.png"},
		{ID: "mixed-pie", Name: "Mixed Pie", Description: "Slice of the day", Price: 4.2, PriceFormatted: utils.FormatPrice(4.2), ImageName: "mock_mixed_pie.png"},
		{ID: "grilled-chicken", Name: "Grilled Chicken", Description: "With seasonal sides", Price: 9.9, PriceFormatted: utils.FormatPrice(9.9), ImageName: "mock_chicken.png"},
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Demo restaurant and menu seeded")
	return nil
}
