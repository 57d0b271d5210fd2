package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Niftys/ebiddle/internal/config"
	"github.com/Niftys/ebiddle/internal/database"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/refresh"
	"github.com/Niftys/ebiddle/internal/store"
	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
)

// Exports one date's snapshots and run log to an .xlsx operator report.

var (
	date   = flag.String("date", "", "date to export (YYYY-MM-DD, default today)")
	output = flag.String("out", "", "output file (default refresh-report-<date>.xlsx)")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	s := store.NewGormStore(db)

	exportDate := *date
	if exportDate == "" {
		exportDate = refresh.Today(cfg.Location())
	}
	outFile := *output
	if outFile == "" {
		outFile = fmt.Sprintf("refresh-report-%s.xlsx", exportDate)
	}

	f := excelize.NewFile()
	defer f.Close()

	writeSummarySheet(f, s, exportDate)
	writeItemsSheet(f, s, exportDate)
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(outFile); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}
	log.Printf("Report written to %s", outFile)
}

func writeSummarySheet(f *excelize.File, s store.Store, date string) {
	sheet := "Summary"
	f.NewSheet(sheet)

	headers := []string{"Log", "Success", "Trigger", "Duration (s)", "Category", "Items", "Pool", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, key := range []string{date, models.BackupLogKey(date)} {
		runLog, exists, err := s.GetRunLog(key)
		if err != nil {
			log.Printf("Skipping log %s: %v", key, err)
			continue
		}
		if !exists {
			continue
		}
		for _, r := range runLog.Results {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), key)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), runLog.Success)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), runLog.Trigger)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), runLog.Duration)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Category)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.ItemCount)
			if r.TotalPoolSize > 0 {
				f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.TotalPoolSize)
			}
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.Error)
			row++
		}
	}
}

func writeItemsSheet(f *excelize.File, s store.Store, date string) {
	sheet := "Items"
	f.NewSheet(sheet)

	headers := []string{"Category", "Item ID", "Title", "Price", "Currency", "Condition", "Images"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, category := range append(append([]string{}, models.Categories...), models.CategoryGeneral) {
		snapshot, exists, err := s.GetSnapshot(date, category)
		if err != nil {
			log.Printf("Skipping category %s: %v", category, err)
			continue
		}
		if !exists {
			continue
		}
		for _, item := range snapshot.Items {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), category)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.ID)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Title)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Price)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.Currency)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Condition)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), len(item.Images))
			row++
		}
	}
}
