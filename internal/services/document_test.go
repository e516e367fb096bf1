package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

func TestCreateDocumentNotifiesJourneyEvent(t *testing.T) {
	docs := newFakeDocumentRepo()
	notifier := &recordingNotifier{}
	service := NewDocumentService(nil, testLogger(t), docs, notifier)
	userID := uuid.New()

	doc, err := service.Create(context.Background(), userID, CreateDocumentInput{
		Title:   "SOP Draft",
		Type:    types.DocumentSOP,
		Content: "My journey began...",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Status != types.DocumentDraft {
		t.Fatalf("status: want=%q got=%q", types.DocumentDraft, doc.Status)
	}
	if !notifier.has(sse.EventDocumentCreated) {
		t.Fatalf("document creation must emit %q, got=%v", sse.EventDocumentCreated, notifier.events)
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	docs := newFakeDocumentRepo()
	notifier := &recordingNotifier{}
	service := NewDocumentService(nil, testLogger(t), docs, notifier)
	userID := uuid.New()

	if _, err := service.Create(context.Background(), userID, CreateDocumentInput{Title: "   "}); err == nil {
		t.Fatalf("blank title must fail")
	}
	if notifier.has(sse.EventDocumentCreated) {
		t.Fatalf("failed creation must not emit an event")
	}

	doc, err := service.Create(context.Background(), userID, CreateDocumentInput{
		Title: "Notes",
		Type:  types.DocumentType("BOGUS"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Type != types.DocumentOther {
		t.Fatalf("unknown type must default to OTHER, got=%q", doc.Type)
	}
}
