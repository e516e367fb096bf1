package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type CreateDocumentInput struct {
	Title   string
	Type    types.DocumentType
	Content string
}

type DocumentService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateDocumentInput) (*types.Document, error)
	Get(ctx context.Context, userID uuid.UUID, docID uuid.UUID) (*types.Document, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Document, error)
	Update(ctx context.Context, userID uuid.UUID, docID uuid.UUID, updates map[string]interface{}) (*types.Document, error)
	Delete(ctx context.Context, userID uuid.UUID, docID uuid.UUID) error
}

type documentService struct {
	db        *gorm.DB
	log       *logger.Logger
	documents repos.DocumentRepo
	notifier  JourneyNotifier
}

func NewDocumentService(db *gorm.DB, baseLog *logger.Logger, documentRepo repos.DocumentRepo, notifier JourneyNotifier) DocumentService {
	return &documentService{
		db:        db,
		log:       baseLog.With("service", "DocumentService"),
		documents: documentRepo,
		notifier:  notifier,
	}
}

var documentUpdatableColumns = map[string]bool{
	"title":   true,
	"type":    true,
	"content": true,
	"status":  true,
}

func (s *documentService) Create(ctx context.Context, userID uuid.UUID, input CreateDocumentInput) (*types.Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("document title required")
	}
	docType := input.Type
	if !docType.Valid() {
		docType = types.DocumentOther
	}
	doc, err := s.documents.Create(ctx, nil, &types.Document{
		UserID:  userID,
		Title:   title,
		Type:    docType,
		Content: input.Content,
		Status:  types.DocumentDraft,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, sse.EventDocumentCreated, doc)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, userID uuid.UUID, docID uuid.UUID) (*types.Document, error) {
	doc, err := s.documents.GetByID(ctx, nil, docID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, userID uuid.UUID) ([]*types.Document, error) {
	return s.documents.ListByUser(ctx, nil, userID)
}

func (s *documentService) Update(ctx context.Context, userID uuid.UUID, docID uuid.UUID, updates map[string]interface{}) (*types.Document, error) {
	if _, err := s.Get(ctx, userID, docID); err != nil {
		return nil, err
	}
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if documentUpdatableColumns[k] {
			filtered[k] = v
		}
	}
	if t, ok := filtered["type"].(string); ok && !types.DocumentType(strings.ToUpper(t)).Valid() {
		delete(filtered, "type")
	}
	return s.documents.Update(ctx, nil, docID, filtered)
}

func (s *documentService) Delete(ctx context.Context, userID uuid.UUID, docID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, docID); err != nil {
		return err
	}
	return s.documents.Delete(ctx, nil, docID)
}
