// Command importcsv creates a draw from the ticket numbers listed in a CSV file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ArowuTest/lotto-backend/internal/config"
	"github.com/ArowuTest/lotto-backend/internal/database"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/ArowuTest/lotto-backend/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func main() {
	price := flag.String("price", "", "ticket price of the new draw")
	copies := flag.Int("copies", 1, "copies sold per ticket number")
	configPath := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	if flag.NArg() < 1 || *price == "" {
		fmt.Fprintln(os.Stderr, "usage: importcsv -price 10 [-copies 1] [-config .] numbers.csv")
		os.Exit(2)
	}

	ticketPrice, err := decimal.NewFromString(*price)
	if err != nil {
		log.Fatalf("Invalid price %q: %v", *price, err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg, flag.Arg(0), ticketPrice, *copies); err != nil {
		log.Fatalf("Failed to import data: %v", err)
	}
}

func run(cfg *config.Config, csvFilePath string, price decimal.Decimal, copies int) error {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	imported, err := utils.ReadDrawNumbers(file)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"rows":    imported.TotalRows,
		"numbers": len(imported.Numbers),
		"skipped": len(imported.Skipped),
	}).Info("CSV parsed")

	ctx := context.Background()
	store, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	drawService := services.NewDrawService(store, services.Options{
		DebitOnPurchase: cfg.Settlement.DebitOnPurchase,
		SuffixLength:    cfg.Settlement.SuffixLength,
	})
	draw, err := drawService.GenerateDraw(ctx, &models.GenerateDrawRequest{
		Numbers: imported.Numbers,
		Price:   price,
		Copies:  copies,
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"drawId": draw.ID, "tickets": draw.TicketCount}).Info("Draw imported successfully")
	return nil
}
