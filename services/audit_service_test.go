package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// seedEvents writes events across two sites straight through the repository
func seedEvents(t *testing.T, repos *repositories.Repositories) {
	ctx := context.Background()
	events := []*models.AuditEvent{
		{Action: models.ActionCreate, EntityType: "PurchaseOrder", EntityID: "1", Site: models.SitePN, ActorEmail: "a@example.com", Summary: "Created PurchaseOrder 1"},
		{Action: models.ActionUpdate, EntityType: "PurchaseOrder", EntityID: "1", Site: models.SitePN, ActorEmail: "a@example.com", Summary: "Updated PurchaseOrder 1"},
		{Action: models.ActionSale, EntityType: "Sale", EntityID: "2", Site: models.SiteDLA, ActorEmail: "b@example.com", Summary: "Sale 2 (DLA)"},
	}
	for _, event := range events {
		if err := repos.Audit.Append(ctx, event); err != nil {
			t.Fatalf("Failed to seed audit event: %v", err)
		}
	}
}

// TestListEventsSiteScoping verifies branch users only ever see their own
// site's events, whatever filter they send.
func TestListEventsSiteScoping(t *testing.T) {
	services, repos := setupTestServices(t)
	seedEvents(t, repos)

	// PN agent asking for DLA still gets PN only
	views, err := services.Audit.ListEvents(agentContext(models.SitePN), models.AuditEventFilter{Site: models.SiteDLA})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, view := range views {
		assert.Equal(t, models.SitePN, view.Site)
	}

	// Boss sees everything and can narrow freely
	all, err := services.Audit.ListEvents(bossContext(), models.AuditEventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dla, err := services.Audit.ListEvents(bossContext(), models.AuditEventFilter{Site: models.SiteDLA})
	require.NoError(t, err)
	require.Len(t, dla, 1)
	assert.Equal(t, "b@example.com", dla[0].ActorEmail)
}

// TestBuildReportAggregates verifies the daily report totals line up with
// the breakdowns.
func TestBuildReportAggregates(t *testing.T) {
	services, repos := setupTestServices(t)
	seedEvents(t, repos)

	today := models.FormatDate(time.Now().UTC())
	report, err := services.Audit.BuildReport(bossContext(), PeriodDaily, ReportParams{Date: today})
	require.NoError(t, err)

	assert.Equal(t, today, report.Period)
	assert.Equal(t, 3, report.TotalEvents)

	sum := 0
	for _, count := range report.EventsByAction {
		sum += count
	}
	assert.Equal(t, report.TotalEvents, sum)
	assert.Equal(t, 2, report.EventsBySite[models.SitePN])
	assert.Equal(t, 1, report.EventsBySite[models.SiteDLA])

	require.NotEmpty(t, report.TopUsers)
	assert.Equal(t, "a@example.com", report.TopUsers[0].ActorEmail)
	assert.Equal(t, 2, report.TopUsers[0].Count)
	assert.Len(t, report.LastEvents, 3)
}

// TestBuildReportAccess verifies branch users are refused while batch jobs
// running without an actor go through.
func TestBuildReportAccess(t *testing.T) {
	services, _ := setupTestServices(t)
	params := ReportParams{Date: "2026-08-28"}

	_, err := services.Audit.BuildReport(agentContext(models.SitePN), PeriodDaily, params)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = services.Audit.BuildReport(context.Background(), PeriodDaily, params)
	assert.NoError(t, err)
}

func TestReportRange(t *testing.T) {
	tests := []struct {
		name      string
		period    string
		params    ReportParams
		wantStart time.Time
		wantEnd   time.Time
		wantLabel string
		wantErr   bool
	}{
		{
			name:      "daily",
			period:    PeriodDaily,
			params:    ReportParams{Date: "2026-08-28"},
			wantStart: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
			wantLabel: "2026-08-28",
		},
		{
			name:      "weekly",
			period:    PeriodWeekly,
			params:    ReportParams{Year: 2026, Week: 35},
			wantStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantLabel: "2026-W35",
		},
		{
			name:      "weekly year starting midweek",
			period:    PeriodWeekly,
			params:    ReportParams{Year: 2026, Week: 1},
			wantStart: time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			wantLabel: "2026-W01",
		},
		{
			name:      "monthly",
			period:    PeriodMonthly,
			params:    ReportParams{Year: 2026, Month: 2},
			wantStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			wantLabel: "2026-02",
		},
		{name: "daily missing date", period: PeriodDaily, wantErr: true},
		{name: "daily bad date", period: PeriodDaily, params: ReportParams{Date: "28/08/2026"}, wantErr: true},
		{name: "weekly missing week", period: PeriodWeekly, params: ReportParams{Year: 2026}, wantErr: true},
		{name: "weekly out of range", period: PeriodWeekly, params: ReportParams{Year: 2026, Week: 54}, wantErr: true},
		{name: "monthly out of range", period: PeriodMonthly, params: ReportParams{Year: 2026, Month: 13}, wantErr: true},
		{name: "unknown period", period: "hourly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, label, err := reportRange(tt.period, tt.params)
			if tt.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestAgentLabel(t *testing.T) {
	chrome := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	assert.Equal(t, "Chrome 120 on Linux", AgentLabel(chrome))

	assert.Equal(t, "", AgentLabel(""))

	// Unrecognized agents keep the raw string
	assert.Equal(t, "my-batch-job/2.1", AgentLabel("my-batch-job/2.1"))
}
