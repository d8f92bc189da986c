package controllers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// AuditController handles audit event queries and aggregated reports
type AuditController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewAuditController creates a new audit controller
func NewAuditController(services *services.Services, log *logrus.Logger) *AuditController {
	return &AuditController{services: services, log: log}
}

// ListEvents handles GET /api/audit-events with optional action, site,
// date_after, date_before and limit filters.
func (ac *AuditController) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.AuditEventFilter{
		Action: query.Get("action"),
		Site:   query.Get("site"),
	}

	if filter.Action != "" && !models.IsValidAction(filter.Action) {
		respondError(w, http.StatusBadRequest, "unknown action")
		return
	}
	if raw := query.Get("date_after"); raw != "" {
		t, err := models.ParseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date_after must be a valid date (YYYY-MM-DD)")
			return
		}
		filter.DateAfter = &t
	}
	if raw := query.Get("date_before"); raw != "" {
		t, err := models.ParseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date_before must be a valid date (YYYY-MM-DD)")
			return
		}
		filter.DateBefore = &t
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	events, err := ac.services.Audit.ListEvents(r.Context(), filter)
	if err != nil {
		respondServiceError(w, ac.log, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// DailyReport handles GET /api/reports/audit/daily?date=YYYY-MM-DD
func (ac *AuditController) DailyReport(w http.ResponseWriter, r *http.Request) {
	params := services.ReportParams{Date: r.URL.Query().Get("date")}
	ac.report(w, r, services.PeriodDaily, params)
}

// WeeklyReport handles GET /api/reports/audit/weekly?year=2026&week=35
func (ac *AuditController) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := services.ReportParams{
		Year: atoiOrZero(query.Get("year")),
		Week: atoiOrZero(query.Get("week")),
	}
	ac.report(w, r, services.PeriodWeekly, params)
}

// MonthlyReport handles GET /api/reports/audit/monthly?year=2026&month=8
func (ac *AuditController) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := services.ReportParams{
		Year:  atoiOrZero(query.Get("year")),
		Month: atoiOrZero(query.Get("month")),
	}
	ac.report(w, r, services.PeriodMonthly, params)
}

func (ac *AuditController) report(w http.ResponseWriter, r *http.Request, period string, params services.ReportParams) {
	report, err := ac.services.Audit.BuildReport(r.Context(), period, params)
	if err != nil {
		respondServiceError(w, ac.log, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
