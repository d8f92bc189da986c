package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mssola/useragent"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// Report aggregation sizes, matching what the log viewer shows.
const (
	reportTopActors  = 10
	reportLastEvents = 50
)

// Reporting periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// ReportParams selects the reporting window. Daily takes Date; weekly takes
// Year and Week (ISO week numbering); monthly takes Year and Month.
type ReportParams struct {
	Date  string
	Year  int
	Week  int
	Month int
}

// AuditEventView is an audit event decorated for display with a readable
// user agent label.
type AuditEventView struct {
	models.AuditEvent
	AgentLabel string `json:"agent_label,omitempty"`
}

// AuditService interface defines audit log query and reporting logic. The
// log itself is written by the interceptor; this service only reads.
type AuditService interface {
	ListEvents(ctx context.Context, filter models.AuditEventFilter) ([]AuditEventView, error)
	BuildReport(ctx context.Context, period string, params ReportParams) (*models.AuditReport, error)
}

// auditService implements AuditService interface
type auditService struct {
	auditRepo repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// ListEvents retrieves audit events matching the filter. Privileged roles
// see every site; everyone else is pinned to their own site regardless of
// the requested filter.
func (s *auditService) ListEvents(ctx context.Context, filter models.AuditEventFilter) ([]AuditEventView, error) {
	actor := actorctx.FromContext(ctx)
	if actor.Known() && !actor.Privileged() {
		filter.Site = actor.Site
	}

	events, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]AuditEventView, 0, len(events))
	for _, event := range events {
		views = append(views, AuditEventView{
			AuditEvent: event,
			AgentLabel: AgentLabel(event.UserAgent),
		})
	}
	return views, nil
}

// BuildReport aggregates audit metrics over a reporting window: total count,
// per-action and per-site breakdowns, the ten most active actors and the
// fifty newest events. Restricted to privileged roles.
func (s *auditService) BuildReport(ctx context.Context, period string, params ReportParams) (*models.AuditReport, error) {
	actor := actorctx.FromContext(ctx)
	if actor.Known() && !actor.Privileged() {
		return nil, ErrForbidden
	}

	start, end, label, err := reportRange(period, params)
	if err != nil {
		return nil, err
	}

	total, err := s.auditRepo.CountInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byAction, err := s.auditRepo.CountByAction(ctx, start, end)
	if err != nil {
		return nil, err
	}
	bySite, err := s.auditRepo.CountBySite(ctx, start, end)
	if err != nil {
		return nil, err
	}
	topActors, err := s.auditRepo.TopActors(ctx, start, end, reportTopActors)
	if err != nil {
		return nil, err
	}
	lastEvents, err := s.auditRepo.LastEvents(ctx, start, end, reportLastEvents)
	if err != nil {
		return nil, err
	}

	return &models.AuditReport{
		Period:         label,
		TotalEvents:    total,
		EventsByAction: byAction,
		EventsBySite:   bySite,
		TopUsers:       topActors,
		LastEvents:     lastEvents,
	}, nil
}

// reportRange resolves a period selector to a half-open UTC window
// [start, end) and its display label.
func reportRange(period string, params ReportParams) (start, end time.Time, label string, err error) {
	switch period {
	case PeriodDaily:
		if params.Date == "" {
			return start, end, "", &ValidationError{Problems: []string{"date is required"}}
		}
		day, parseErr := models.ParseDate(params.Date)
		if parseErr != nil {
			return start, end, "", &ValidationError{Problems: []string{"date must be a valid date (YYYY-MM-DD)"}}
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
		label = models.FormatDate(day)

	case PeriodWeekly:
		if params.Year == 0 || params.Week == 0 {
			return start, end, "", &ValidationError{Problems: []string{"year and week are required"}}
		}
		if params.Week < 1 || params.Week > 53 {
			return start, end, "", &ValidationError{Problems: []string{"week must be between 1 and 53"}}
		}
		start = isoWeekStart(params.Year, params.Week)
		end = start.AddDate(0, 0, 7)
		label = fmt.Sprintf("%d-W%02d", params.Year, params.Week)

	case PeriodMonthly:
		if params.Year == 0 || params.Month == 0 {
			return start, end, "", &ValidationError{Problems: []string{"year and month are required"}}
		}
		if params.Month < 1 || params.Month > 12 {
			return start, end, "", &ValidationError{Problems: []string{"month must be between 1 and 12"}}
		}
		start = time.Date(params.Year, time.Month(params.Month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		label = fmt.Sprintf("%d-%02d", params.Year, params.Month)

	default:
		return start, end, "", &ValidationError{Problems: []string{"period must be daily, weekly or monthly"}}
	}

	return start, end, label, nil
}

// isoWeekStart returns the Monday starting the given ISO week, at midnight
// UTC. January 4th always falls in week 1.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// AgentLabel condenses a raw User-Agent header into a short display label
// like "Chrome 120 on Linux". Unrecognized agents fall back to the raw
// string.
func AgentLabel(raw string) string {
	if raw == "" {
		return ""
	}

	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return raw
	}

	label := name
	if version != "" {
		if idx := strings.Index(version, "."); idx > 0 {
			version = version[:idx]
		}
		label += " " + version
	}
	if os := ua.OS(); os != "" {
		label += " on " + os
	}
	return label
}
