package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// Timestamps in audit_events are stored as plain UTC strings so SQLite's
// date functions can filter on them.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// AuditRepository is the append-only event store. There is deliberately no
// update or delete method: audit records are immutable after creation.
type AuditRepository interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	List(ctx context.Context, filter models.AuditEventFilter) ([]models.AuditEvent, error)
	CountInRange(ctx context.Context, start, end time.Time) (int, error)
	CountByAction(ctx context.Context, start, end time.Time) (map[string]int, error)
	CountBySite(ctx context.Context, start, end time.Time) (map[string]int, error)
	TopActors(ctx context.Context, start, end time.Time, limit int) ([]models.ActorCount, error)
	LastEvents(ctx context.Context, start, end time.Time, limit int) ([]models.AuditEvent, error)
}

// auditRepository implements AuditRepository interface
type auditRepository struct {
	db database.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db database.DBTX) AuditRepository {
	return &auditRepository{db: db}
}

const auditColumns = `id, actor_id, actor_email, action, entity_type, entity_id,
	       site, summary, before_json, after_json, ip_address, user_agent, created_at`

// Append persists a new immutable audit record with a server-assigned
// timestamp. A write failure propagates to the caller.
func (r *auditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	query := `
		INSERT INTO audit_events (actor_id, actor_email, action, entity_type, entity_id,
		                          site, summary, before_json, after_json, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	event.CreatedAt = time.Now().UTC().Truncate(time.Second)

	var before, after any
	if event.BeforeJSON != nil {
		before = string(event.BeforeJSON)
	}
	if event.AfterJSON != nil {
		after = string(event.AfterJSON)
	}

	result, err := r.db.ExecContext(ctx, query,
		event.ActorID,
		event.ActorEmail,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.Site,
		event.Summary,
		before,
		after,
		event.IPAddress,
		event.UserAgent,
		event.CreatedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted audit event ID: %w", err)
	}

	event.ID = id
	return nil
}

// List retrieves audit events matching the filter, newest first. Date
// bounds are inclusive and compare on the event's calendar date.
func (r *auditRepository) List(ctx context.Context, filter models.AuditEventFilter) ([]models.AuditEvent, error) {
	var conditions []string
	var args []any

	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Site != "" {
		conditions = append(conditions, "site = ?")
		args = append(args, filter.Site)
	}
	if filter.DateAfter != nil {
		conditions = append(conditions, "date(created_at) >= date(?)")
		args = append(args, filter.DateAfter.UTC().Format("2006-01-02"))
	}
	if filter.DateBefore != nil {
		conditions = append(conditions, "date(created_at) <= date(?)")
		args = append(args, filter.DateBefore.UTC().Format("2006-01-02"))
	}

	query := "SELECT " + auditColumns + " FROM audit_events"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// CountInRange counts events with start <= created_at < end.
func (r *auditRepository) CountInRange(ctx context.Context, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM audit_events WHERE created_at >= ? AND created_at < ?`

	var count int
	err := r.db.QueryRowContext(ctx, query,
		start.UTC().Format(sqliteTimeLayout),
		end.UTC().Format(sqliteTimeLayout),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	return count, nil
}

// CountByAction groups event counts by action within start <= created_at < end.
func (r *auditRepository) CountByAction(ctx context.Context, start, end time.Time) (map[string]int, error) {
	return r.countGrouped(ctx, "action", start, end)
}

// CountBySite groups event counts by site within start <= created_at < end.
func (r *auditRepository) CountBySite(ctx context.Context, start, end time.Time) (map[string]int, error) {
	return r.countGrouped(ctx, "site", start, end)
}

func (r *auditRepository) countGrouped(ctx context.Context, column string, start, end time.Time) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) FROM audit_events
		WHERE created_at >= ? AND created_at < ?
		GROUP BY %s
	`, column, column)

	rows, err := r.db.QueryContext(ctx, query,
		start.UTC().Format(sqliteTimeLayout),
		end.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit events by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}
		counts[key] = count
	}

	return counts, rows.Err()
}

// TopActors returns the actors with the most events in the range, most
// active first.
func (r *auditRepository) TopActors(ctx context.Context, start, end time.Time, limit int) ([]models.ActorCount, error) {
	query := `
		SELECT actor_email, COUNT(*) AS count FROM audit_events
		WHERE created_at >= ? AND created_at < ?
		GROUP BY actor_email
		ORDER BY count DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query,
		start.UTC().Format(sqliteTimeLayout),
		end.UTC().Format(sqliteTimeLayout),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top actors: %w", err)
	}
	defer rows.Close()

	var actors []models.ActorCount
	for rows.Next() {
		var actor models.ActorCount
		if err := rows.Scan(&actor.ActorEmail, &actor.Count); err != nil {
			return nil, fmt.Errorf("failed to scan actor count: %w", err)
		}
		actors = append(actors, actor)
	}

	return actors, rows.Err()
}

// LastEvents returns the newest events in the range.
func (r *auditRepository) LastEvents(ctx context.Context, start, end time.Time, limit int) ([]models.AuditEvent, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_events
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query,
		start.UTC().Format(sqliteTimeLayout),
		end.UTC().Format(sqliteTimeLayout),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query last audit events: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

func scanAuditEvents(rows *sql.Rows) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	for rows.Next() {
		var event models.AuditEvent
		var actorID sql.NullInt64
		var before, after sql.NullString

		err := rows.Scan(
			&event.ID,
			&actorID,
			&event.ActorEmail,
			&event.Action,
			&event.EntityType,
			&event.EntityID,
			&event.Site,
			&event.Summary,
			&before,
			&after,
			&event.IPAddress,
			&event.UserAgent,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}

		if actorID.Valid {
			id := actorID.Int64
			event.ActorID = &id
		}
		if before.Valid {
			event.BeforeJSON = []byte(before.String)
		}
		if after.Valid {
			event.AfterJSON = []byte(after.String)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}

	return events, nil
}
