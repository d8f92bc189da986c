package services

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// setupTestServices wires the full service stack against a throwaway
// sqlite database created through the real migration system.
func setupTestServices(t *testing.T) (*Services, *repositories.Repositories) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() {
		database.CloseDB()
	})

	log := logrus.New()
	log.SetOutput(io.Discard)

	db := database.GetDB()
	repos := repositories.NewRepositories(db)

	// Seed the accounts bossContext/agentContext reference so rows that
	// stamp created_by/changed_by from the actor satisfy the users(id)
	// foreign key. A fresh database assigns them IDs 1 and 2.
	seedActor(t, repos, "boss@example.com", models.RoleBoss, models.SiteBE)
	seedActor(t, repos, "agent@example.com", models.RoleBranchAgent, models.SitePN)

	return NewServices(db, repos, log), repos
}

func seedActor(t *testing.T, repos *repositories.Repositories, email, role, site string) {
	user := &models.User{
		Email:        email,
		FullName:     email,
		Role:         role,
		Site:         site,
		PasswordHash: "unused",
		IsActive:     true,
	}
	if err := repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
}

// actorContext builds a request context for the given principal
func actorContext(userID int64, email, role, site string) context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID:    userID,
		Email:     email,
		Role:      role,
		Site:      site,
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent/1.0",
	})
}

func bossContext() context.Context {
	return actorContext(1, "boss@example.com", models.RoleBoss, models.SiteBE)
}

func agentContext(site string) context.Context {
	return actorContext(2, "agent@example.com", models.RoleBranchAgent, site)
}

// seedSupplierAndProduct inserts the reference rows tracked entities hang off
func seedSupplierAndProduct(t *testing.T, repos *repositories.Repositories) (supplierID, productID int64) {
	ctx := context.Background()

	supplier := &models.Supplier{Name: "Test Supplier"}
	if err := repos.Suppliers.Create(ctx, supplier); err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}

	product := &models.Product{SKU: "SKU-1", Name: "Test Product"}
	if err := repos.Products.Create(ctx, product); err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	return supplier.ID, product.ID
}

// listAllEvents reads the raw audit log without visibility scoping
func listAllEvents(t *testing.T, repos *repositories.Repositories) []models.AuditEvent {
	events, err := repos.Audit.List(context.Background(), models.AuditEventFilter{})
	if err != nil {
		t.Fatalf("Failed to list audit events: %v", err)
	}
	return events
}
