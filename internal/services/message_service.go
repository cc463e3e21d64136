package services

import (
	"context"
	"errors"

	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/ws"
)

type MessageService struct {
	Repo        *repositories.MessageRepository
	ProjectRepo *repositories.ProjectRepository
	Hub         *ws.Hub
}

func NewMessageService(repo *repositories.MessageRepository, projectRepo *repositories.ProjectRepository, hub *ws.Hub) *MessageService {
	return &MessageService{
		Repo:        repo,
		ProjectRepo: projectRepo,
		Hub:         hub,
	}
}

// PostStaffMessage posts into a project thread on behalf of a staff user.
func (s *MessageService) PostStaffMessage(ctx context.Context, req *models.CreateMessageRequest, user *models.User) (*models.Message, error) {
	if req.Body == "" {
		return nil, errors.New("message body is required")
	}
	if _, err := s.ProjectRepo.Get(ctx, req.ProjectID); err != nil {
		return nil, errors.New("project not found")
	}

	msg := &models.Message{
		ProjectID:    req.ProjectID,
		SenderType:   "staff",
		SenderUserID: &user.ID,
		SenderName:   user.Name,
		Body:         req.Body,
	}
	if err := s.Repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Publish(msg)
	}
	return msg, nil
}

// PostClientMessage posts into a project thread from the portal, enforcing
// that the project belongs to the client.
func (s *MessageService) PostClientMessage(ctx context.Context, req *models.CreateMessageRequest, client *models.Client) (*models.Message, error) {
	if req.Body == "" {
		return nil, errors.New("message body is required")
	}
	project, err := s.ProjectRepo.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, errors.New("project not found")
	}
	if project.ClientID != client.ID {
		return nil, errors.New("project does not belong to this client")
	}

	msg := &models.Message{
		ProjectID:      req.ProjectID,
		SenderType:     "client",
		SenderClientID: &client.ID,
		SenderName:     client.Name,
		Body:           req.Body,
	}
	if err := s.Repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Publish(msg)
	}
	return msg, nil
}

// ListThread returns a project's messages, marking the other side's
// messages read for the viewer.
func (s *MessageService) ListThread(ctx context.Context, projectID int, readerType string) ([]*models.Message, error) {
	messages, err := s.Repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if readerType == "staff" || readerType == "client" {
		_ = s.Repo.MarkRead(ctx, projectID, readerType)
	}
	return messages, nil
}

// ClientOwnsProject reports whether a project belongs to a client. Used by
// the portal websocket subscription gate.
func (s *MessageService) ClientOwnsProject(ctx context.Context, clientID, projectID int) bool {
	project, err := s.ProjectRepo.Get(ctx, projectID)
	return err == nil && project.ClientID == clientID
}
