package services

import (
	"context"
	"database/sql"

	"github.com/cargoflow/cargoflow/audit"
	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// DocumentService interface defines document business logic
type DocumentService interface {
	GetDocuments(ctx context.Context) ([]models.Document, error)
	GetDocumentByID(ctx context.Context, id int64) (*models.Document, error)
	Upload(ctx context.Context, form *models.DocumentForm) (*models.Document, error)
	UpdateDocument(ctx context.Context, id int64, form *models.DocumentForm) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}

// documentService implements DocumentService interface
type documentService struct {
	db          *sql.DB
	repos       *repositories.Repositories
	interceptor *audit.Interceptor
}

// NewDocumentService creates a new document service
func NewDocumentService(db *sql.DB, repos *repositories.Repositories, interceptor *audit.Interceptor) DocumentService {
	return &documentService{db: db, repos: repos, interceptor: interceptor}
}

// GetDocuments retrieves documents visible to the acting user. Visibility
// follows the resolved site of each document's linked record.
func (s *documentService) GetDocuments(ctx context.Context) ([]models.Document, error) {
	docs, err := s.repos.Documents.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var visible []models.Document
	for i := range docs {
		if canAccessSite(ctx, docs[i].ResolveSite()) {
			visible = append(visible, docs[i])
		}
	}
	return visible, nil
}

// GetDocumentByID retrieves a document by ID
func (s *documentService) GetDocumentByID(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessSite(ctx, doc.ResolveSite()) {
		return nil, ErrForbidden
	}
	return doc, nil
}

// Upload stores a new document. Versioning is per title: the new row takes
// the next version number and older rows lose their current flag. One
// transaction covers the row, the version bookkeeping, the CREATE audit
// event and the UPLOAD_DOC audit event.
func (s *documentService) Upload(ctx context.Context, form *models.DocumentForm) (*models.Document, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	doc := &models.Document{
		LinkedShipmentID: form.LinkedShipmentID,
		LinkedPOID:       form.LinkedPOID,
		Title:            form.Title,
		DocType:          form.DocType,
		Description:      form.Description,
		FilePath:         form.FilePath,
		UploadedBy:       actorID(ctx),
		IsCurrent:        true,
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		if doc.Title != "" {
			existing, err := txRepos.Documents.CountVersions(ctx, doc.Title)
			if err != nil {
				return err
			}
			doc.Version = existing + 1
		}

		if err := txRepos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		if doc.Title != "" {
			if err := txRepos.Documents.MarkPreviousVersions(ctx, doc.Title, doc.ID); err != nil {
				return err
			}
		}

		// Reload so the linked relations are populated for site resolution.
		loaded, err := txRepos.Documents.GetByID(ctx, doc.ID)
		if err != nil {
			return err
		}
		doc = loaded

		if err := ic.AfterSave(ctx, doc, nil, true); err != nil {
			return err
		}
		return ic.DocumentUploaded(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// UpdateDocument updates a document's metadata, recording the persisted
// pre-image in the audit trail. The stored file itself is immutable.
func (s *documentService) UpdateDocument(ctx context.Context, id int64, form *models.DocumentForm) (*models.Document, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var doc *models.Document
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		existing, err := txRepos.Documents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.ResolveSite()) {
			return ErrForbidden
		}
		before := ic.BeforeSave(ctx, existing)

		existing.LinkedShipmentID = form.LinkedShipmentID
		existing.LinkedPOID = form.LinkedPOID
		existing.Title = form.Title
		existing.DocType = form.DocType
		existing.Description = form.Description
		if err := txRepos.Documents.Update(ctx, existing); err != nil {
			return err
		}

		// Reload so changed links resolve to the right site on the event.
		existing, err = txRepos.Documents.GetByID(ctx, id)
		if err != nil {
			return err
		}

		doc = existing
		return ic.AfterSave(ctx, existing, before, false)
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument deletes a document, recording its final state in the audit
// trail before the row disappears.
func (s *documentService) DeleteDocument(ctx context.Context, id int64) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)

		existing, err := txRepos.Documents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.ResolveSite()) {
			return ErrForbidden
		}
		if err := s.interceptor.WithStore(txRepos.Audit).BeforeDelete(ctx, existing); err != nil {
			return err
		}
		return txRepos.Documents.Delete(ctx, id)
	})
}
