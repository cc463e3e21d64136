package services

import (
	"context"
	"errors"
	"fmt"
	"path"

	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/storage"
	"estimate-backend/internal/timeutil"
)

const maxDocumentSize = 20 << 20 // 20 MiB

type DocumentService struct {
	Repo        *repositories.DocumentRepository
	ProjectRepo *repositories.ProjectRepository
	Store       *storage.Store
}

func NewDocumentService(repo *repositories.DocumentRepository, projectRepo *repositories.ProjectRepository, store *storage.Store) *DocumentService {
	return &DocumentService{
		Repo:        repo,
		ProjectRepo: projectRepo,
		Store:       store,
	}
}

func validDocumentCategory(category string) bool {
	switch category {
	case "contract", "photo", "pdf", "other":
		return true
	}
	return false
}

// Upload stores file bytes in object storage and records the metadata row.
func (s *DocumentService) Upload(ctx context.Context, projectID int, name, contentType, category string, data []byte, uploadedBy *int) (*models.Document, error) {
	if s.Store == nil {
		return nil, errors.New("document storage is not configured")
	}
	if name == "" {
		return nil, errors.New("file name is required")
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty")
	}
	if len(data) > maxDocumentSize {
		return nil, errors.New("file exceeds the 20MB limit")
	}
	if category == "" {
		category = "other"
	}
	if !validDocumentCategory(category) {
		return nil, errors.New("category must be contract, photo, pdf or other")
	}
	if _, err := s.ProjectRepo.Get(ctx, projectID); err != nil {
		return nil, errors.New("project not found")
	}

	key := fmt.Sprintf("projects/%d/%d%s", projectID, timeutil.Now().UnixNano(), path.Ext(name))
	if err := s.Store.Put(ctx, key, contentType, data); err != nil {
		return nil, err
	}

	doc := &models.Document{
		ProjectID:        projectID,
		Name:             name,
		ContentType:      contentType,
		SizeBytes:        int64(len(data)),
		StorageKey:       key,
		Category:         category,
		UploadedByUserID: uploadedBy,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		// Orphaned object; try to clean up
		_ = s.Store.Delete(ctx, key)
		return nil, err
	}
	return doc, nil
}

// Download returns the metadata and bytes of a stored document.
func (s *DocumentService) Download(ctx context.Context, id int) (*models.Document, []byte, error) {
	if s.Store == nil {
		return nil, nil, errors.New("document storage is not configured")
	}
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, nil, errors.New("document not found")
	}
	data, err := s.Store.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

func (s *DocumentService) ListByProject(ctx context.Context, projectID int) ([]*models.Document, error) {
	return s.Repo.ListByProject(ctx, projectID)
}

// Delete removes the metadata row first so a storage failure can't leave a
// dangling reference.
func (s *DocumentService) Delete(ctx context.Context, id int) error {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return errors.New("document not found")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Store != nil {
		_ = s.Store.Delete(ctx, doc.StorageKey)
	}
	return nil
}
