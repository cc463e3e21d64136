package services

import (
	"context"
	"errors"

	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
)

type ProjectService struct {
	Repo       *repositories.ProjectRepository
	ClientRepo *repositories.ClientRepository
}

func NewProjectService(repo *repositories.ProjectRepository, clientRepo *repositories.ClientRepository) *ProjectService {
	return &ProjectService{
		Repo:       repo,
		ClientRepo: clientRepo,
	}
}

func validProjectStatus(status string) bool {
	switch status {
	case models.ProjectStatusPlanned, models.ProjectStatusInProgress,
		models.ProjectStatusOnHold, models.ProjectStatusCompleted:
		return true
	}
	return false
}

func (s *ProjectService) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, errors.New("project name is required")
	}
	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, errors.New("client not found")
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanned
	}
	if !validProjectStatus(status) {
		return nil, errors.New("invalid project status")
	}

	project := &models.Project{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.Repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id int) (*models.ProjectWithClient, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*models.ProjectWithClient, error) {
	return s.Repo.List(ctx)
}

func (s *ProjectService) ListProjectsByClient(ctx context.Context, clientID int) ([]*models.Project, error) {
	return s.Repo.ListByClient(ctx, clientID)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int, req *models.UpdateProjectRequest) (*models.Project, error) {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("project not found")
	}
	if req.Status != "" && !validProjectStatus(req.Status) {
		return nil, errors.New("invalid project status")
	}

	project := &existing.Project
	project.Name = req.Name
	project.Description = req.Description
	project.Address = req.Address
	if req.Status != "" {
		project.Status = req.Status
	}
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate

	if err := s.Repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
