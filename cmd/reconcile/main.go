package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"

	"github.com/ntusports/reconcile-api/internal/config"
	"github.com/ntusports/reconcile-api/internal/csvio"
	"github.com/ntusports/reconcile-api/internal/engine"
	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/ntusports/reconcile-api/internal/services"
)

func main() {
	membersPath := flag.String("members", "members.csv", "club roster file (CSV or XLSX)")
	paymentsPath := flag.String("payments", "payments.csv", "membership payments file (CSV or XLSX)")
	bookingsPath := flag.String("bookings", "bookings.csv", "facility bookings file (CSV or XLSX)")
	outDir := flag.String("out", "reports", "output directory for the generated reports")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load configuration: %v", err)
	}

	members, err := loadMembers(*membersPath)
	if err != nil {
		fail("%v", err)
	}
	payments, err := loadPayments(*paymentsPath)
	if err != nil {
		fail("%v", err)
	}
	bookings, err := loadBookings(*bookingsPath)
	if err != nil {
		fail("%v", err)
	}

	result := engine.Run(engine.Config{
		AnnualFee:   cfg.AnnualFee,
		HourlyRate:  cfg.HourlyRate,
		FuzzyCutoff: cfg.FuzzyCutoff,
	}, members, payments, bookings)

	if err := writeReports(*outDir, &result); err != nil {
		fail("%v", err)
	}

	fmt.Print(services.NewReportService().SummaryText(&result))
	fmt.Printf("\nReports written to %s\n", *outDir)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadMembers(path string) ([]models.Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvio.ReadMembers(path, f)
}

func loadPayments(path string) ([]models.PaymentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvio.ReadPayments(path, f)
}

func loadBookings(path string) ([]models.BookingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvio.ReadBookings(path, f)
}

func writeReports(dir string, result *engine.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	reportSvc := services.NewReportService()
	for _, name := range reportSvc.Artifacts() {
		buf, err := reportSvc.ArtifactCSV(result, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name+".csv"), buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return os.WriteFile(filepath.Join(dir, "summary.txt"), []byte(reportSvc.SummaryText(result)), 0644)
}
