package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/repositories"
	"github.com/cargoflow/cargoflow/services"
)

// auditreport generates an aggregated audit report and writes it to a JSON
// file, for scheduled runs outside the web server.
func main() {
	period := flag.String("period", "", "reporting period: daily, weekly or monthly")
	date := flag.String("date", "", "target date for daily reports (YYYY-MM-DD)")
	year := flag.Int("year", 0, "target year for weekly/monthly reports")
	week := flag.Int("week", 0, "target ISO week for weekly reports")
	month := flag.Int("month", 0, "target month for monthly reports")
	dbPath := flag.String("db", "", "database path (defaults to DATABASE_PATH or cargoflow.db)")
	outDir := flag.String("out", "reports", "output directory")
	flag.Parse()

	godotenv.Load()
	log := logrus.New()

	if *period == "" {
		log.Fatal("-period is required")
	}

	path := *dbPath
	if path == "" {
		path = os.Getenv("DATABASE_PATH")
	}
	if path == "" {
		path = "cargoflow.db"
	}

	if err := database.InitializeDatabase(path); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer database.CloseDB()

	repos := repositories.NewRepositories(database.GetDB())
	auditService := services.NewAuditService(repos.Audit)

	report, err := auditService.BuildReport(context.Background(), *period, services.ReportParams{
		Date:  *date,
		Year:  *year,
		Week:  *week,
		Month: *month,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build report")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create output directory")
	}

	filename := filepath.Join(*outDir, fmt.Sprintf("audit_%s_%s.json", *period, report.Period))
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("failed to encode report")
	}
	if err := os.WriteFile(filename, payload, 0o644); err != nil {
		log.WithError(err).Fatal("failed to write report")
	}

	log.WithField("file", filename).Info("report written")
}
