// Command seed loads a starter catalog: shops, categories and products
// with prices and seasonal flags. Safe to rerun; existing data is kept.
package main

import (
	"fmt"
	"os"

	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
)

type seedProduct struct {
	name        string
	price       float64
	isChristmas bool
	isEpiphany  bool
	isValentine bool
	eventColor  string
	eventIcon   string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig(cfg.Database.Pool)); err != nil {
		fail("database open", err)
	}
	if err := models.AutoMigrate(); err != nil {
		fail("database migrate", err)
	}

	seedShops()
	seedCatalog()
	logger.Infow("seed finished")
}

func seedShops() {
	shops := []models.Shop{
		{Name: "Boutique Centre", Address: "12 rue du Marché", Phone: "04 78 00 00 01", Active: true, SortOrder: 1},
		{Name: "Boutique Gare", Address: "3 place de la Gare", Phone: "04 78 00 00 02", Active: true, SortOrder: 2},
		{Name: "Boutique Halles", Address: "27 cours des Halles", Phone: "04 78 00 00 03", Active: true, SortOrder: 3},
	}
	for _, shop := range shops {
		var count int64
		models.DB.Model(&models.Shop{}).Where("name = ?", shop.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&shop).Error; err != nil {
			fail("seed shop", err)
		}
		logger.Infow("shop created", "name", shop.Name)
	}
}

func seedCatalog() {
	catalog := map[string][]seedProduct{
		"Pâtisseries": {
			{name: "Tarte citron", price: 15.00},
			{name: "Éclair chocolat", price: 3.50},
			{name: "Paris-Brest", price: 4.20},
			{name: "Millefeuille", price: 3.90},
		},
		"Viennoiseries": {
			{name: "Croissant", price: 1.20},
			{name: "Pain au chocolat", price: 1.40},
			{name: "Brioche", price: 6.50},
		},
		"Fêtes": {
			{name: "Bûche de Noël", price: 28.00, isChristmas: true, eventColor: "#c0392b", eventIcon: "sapin"},
			{name: "Galette des rois", price: 18.00, isEpiphany: true, eventColor: "#d4ac0d", eventIcon: "couronne"},
			{name: "Cœur framboise", price: 22.00, isValentine: true, eventColor: "#e84393", eventIcon: "coeur"},
		},
	}

	sortOrder := 0
	for categoryName, products := range catalog {
		sortOrder++
		category := findOrCreateCategory(categoryName, sortOrder)
		for i, p := range products {
			var count int64
			models.DB.Model(&models.Product{}).Where("name = ?", p.name).Count(&count)
			if count > 0 {
				continue
			}
			product := models.Product{
				CategoryID:     category.ID,
				Name:           p.name,
				Price:          models.NewMoneyFromFloat(p.price),
				Active:         true,
				UnlimitedStock: true,
				IsChristmas:    p.isChristmas,
				IsEpiphany:     p.isEpiphany,
				IsValentine:    p.isValentine,
				EventColor:     p.eventColor,
				EventIcon:      p.eventIcon,
				SortOrder:      i + 1,
			}
			if err := models.DB.Create(&product).Error; err != nil {
				fail("seed product", err)
			}
			logger.Infow("product created", "name", product.Name, "category", categoryName)
		}
	}
}

func findOrCreateCategory(name string, sortOrder int) *models.Category {
	var category models.Category
	if err := models.DB.Where("name = ?", name).First(&category).Error; err == nil {
		return &category
	}
	category = models.Category{Name: name, SortOrder: sortOrder}
	if err := models.DB.Create(&category).Error; err != nil {
		fail("seed category", err)
	}
	logger.Infow("category created", "name", name)
	return &category
}

func fail(step string, err error) {
	logger.Errorw("seed failed", "step", step, "error", err)
	fmt.Fprintf(os.Stderr, "seed failed at %s: %v\n", step, err)
	os.Exit(1)
}
