package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/config"
	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/db"
)

// Imports the product catalog from an XLSX export. Expected columns:
// Title | Category | Brand | Sizes | Price | Old Price | Short Description | Features | Tag | Featured
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(database, filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d invalid rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := database.CreateInBatches(products, 500).Error; err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(database *gorm.DB, filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("no data rows found in XLSX file")
	}

	// Category name to ID, loaded once up front.
	var categories []model.Category
	if err := database.Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load categories: %w", err)
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryIDs[strings.ToLower(c.Name)] = c.ID
	}

	var products []model.Product
	slugCounter := make(map[string]int)
	skipped := 0

	for i, row := range rows[1:] {
		rowNum := i + 2

		title := cell(row, 0)
		if title == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(cell(row, 4), 64)
		if err != nil || price <= 0 {
			fmt.Printf("Row %d: invalid price %q, skipping\n", rowNum, cell(row, 4))
			skipped++
			continue
		}

		product := model.Product{
			Title:            title,
			Brand:            cell(row, 2),
			Sizes:            cell(row, 3),
			Price:            price,
			ShortDescription: cell(row, 6),
			Features:         cell(row, 7),
		}

		if name := strings.ToLower(cell(row, 1)); name != "" {
			if id, ok := categoryIDs[name]; ok {
				categoryID := id
				product.CategoryID = &categoryID
			} else {
				fmt.Printf("Row %d: unknown category %q, importing uncategorized\n", rowNum, cell(row, 1))
			}
		}

		if old, err := strconv.ParseFloat(cell(row, 5), 64); err == nil && old > price {
			oldPrice := old
			product.OldPrice = &oldPrice
		}

		switch tag := model.ProductTag(strings.ToLower(cell(row, 8))); tag {
		case model.TagSummer, model.TagWorkspace, model.TagGifts:
			product.Tag = tag
		}

		if featured := strings.ToLower(cell(row, 9)); featured == "yes" || featured == "true" || featured == "1" {
			product.IsFeatured = true
		}

		base := slug.Make(title)
		slugCounter[base]++
		if n := slugCounter[base]; n > 1 {
			product.Slug = fmt.Sprintf("%s-%d", base, n)
		} else {
			product.Slug = base
		}

		products = append(products, product)
	}

	return products, skipped, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
