package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/clients/groq"
	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/types"
)

const (
	chatHistoryLimit = 20

	defaultSessionTitle = "New conversation"
	sessionTitleMaxLen  = 60

	chatFallbackReply = "I'm having trouble reaching the counselling model right now. Please try again in a moment."

	sessionTitlePrompt = "Summarize the student's message as a short conversation title, " +
		"at most six words, no quotes, no trailing punctuation. Answer with the title only."
)

type ChatService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, title string) (*types.ChatSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*types.ChatSession, error)
	ListMessages(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) ([]*types.ChatMessage, error)
	DeleteSession(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) error

	// StreamReply persists the user message, streams the assistant reply
	// through onDelta, persists the full reply, then dispatches any actions
	// the reply carried. Actions run only after the stream completes.
	StreamReply(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, userText string, useRAG bool, onDelta func(delta string)) (*types.ChatMessage, error)
}

type chatService struct {
	db           *gorm.DB
	log          *logger.Logger
	chats        repos.ChatRepo
	profiles     repos.ProfileRepo
	universities repos.UniversityRepo
	llm          groq.Client
	search       SearchService
	tasks        TaskService
	documents    DocumentService
	shortlist    ShortlistService
	stage        StageService
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chatRepo repos.ChatRepo,
	profileRepo repos.ProfileRepo,
	universityRepo repos.UniversityRepo,
	llm groq.Client,
	searchService SearchService,
	taskService TaskService,
	documentService DocumentService,
	shortlistService ShortlistService,
	stageService StageService,
) ChatService {
	return &chatService{
		db:           db,
		log:          baseLog.With("service", "ChatService"),
		chats:        chatRepo,
		profiles:     profileRepo,
		universities: universityRepo,
		llm:          llm,
		search:       searchService,
		tasks:        taskService,
		documents:    documentService,
		shortlist:    shortlistService,
		stage:        stageService,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userID uuid.UUID, title string) (*types.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSessionTitle
	}
	return s.chats.CreateSession(ctx, nil, &types.ChatSession{UserID: userID, Title: title})
}

func (s *chatService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*types.ChatSession, error) {
	return s.chats.ListSessions(ctx, nil, userID)
}

func (s *chatService) ListMessages(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.chats.ListMessages(ctx, nil, sessionID)
}

func (s *chatService) DeleteSession(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.chats.DeleteSession(ctx, nil, sessionID)
}

func (s *chatService) StreamReply(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, userText string, useRAG bool, onDelta func(delta string)) (*types.ChatMessage, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, fmt.Errorf("message required")
	}
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.chats.ListMessages(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.chats.CreateMessage(ctx, nil, &types.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleUser,
		Content:   userText,
	}); err != nil {
		return nil, err
	}

	system := s.buildSystemPrompt(ctx, profile, userText, useRAG)
	msgs := historyToLLM(history, chatHistoryLimit)
	msgs = append(msgs, groq.Message{Role: "user", Content: userText})

	full, streamErr := s.llm.StreamChat(ctx, system, msgs, onDelta)
	if streamErr != nil || strings.TrimSpace(full) == "" {
		if streamErr != nil {
			s.log.Warn("Chat completion failed, storing fallback reply", "session_id", sessionID, "error", streamErr)
		}
		full = chatFallbackReply
		if onDelta != nil {
			onDelta(full)
		}
	}

	assistant, err := s.chats.CreateMessage(ctx, nil, &types.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleAssistant,
		Content:   full,
	})
	if err != nil {
		return nil, err
	}

	if streamErr == nil {
		s.dispatchActions(ctx, userID, profile, full)
		if len(history) == 0 && session.Title == defaultSessionTitle {
			s.titleSession(ctx, sessionID, userText)
		}
	}
	return assistant, nil
}

// titleSession replaces the placeholder title of a fresh session with a short
// model-generated one. Failures keep the placeholder.
func (s *chatService) titleSession(ctx context.Context, sessionID uuid.UUID, userText string) {
	raw, err := s.llm.GenerateText(ctx, sessionTitlePrompt, userText)
	if err != nil {
		s.log.Warn("Session title generation failed", "session_id", sessionID, "error", err)
		return
	}
	title := cleanSessionTitle(raw)
	if title == "" {
		return
	}
	if err := s.chats.UpdateSessionTitle(ctx, nil, sessionID, title); err != nil {
		s.log.Warn("Session title update failed", "session_id", sessionID, "error", err)
	}
}

func cleanSessionTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	title = strings.Trim(title, `"'`)
	runes := []rune(title)
	if len(runes) > sessionTitleMaxLen {
		title = strings.TrimSpace(string(runes[:sessionTitleMaxLen]))
	}
	return title
}

func (s *chatService) ownedSession(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) (*types.ChatSession, error) {
	session, err := s.chats.GetSession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

// dispatchActions executes every action parsed out of one assistant message.
// ParseActions dedups identical tags, so each side effect fires at most once
// per message. Individual failures are logged and skipped.
func (s *chatService) dispatchActions(ctx context.Context, userID uuid.UUID, profile *types.UserProfile, message string) {
	for _, action := range ParseActions(message) {
		switch a := action.(type) {
		case TaskAction:
			stage := profile.CurrentStage
			if a.Stage != nil {
				stage = *a.Stage
			}
			if _, err := s.tasks.Create(ctx, userID, CreateTaskInput{
				Title:    a.Title,
				Priority: a.Priority,
				Stage:    stage,
			}); err != nil {
				s.log.Warn("Chat task action failed", "title", a.Title, "error", err)
			}
		case DocumentAction:
			if _, err := s.documents.Create(ctx, userID, CreateDocumentInput{
				Title:   a.Title,
				Type:    a.Type,
				Content: a.Content,
			}); err != nil {
				s.log.Warn("Chat document action failed", "title", a.Title, "error", err)
			}
		case ShortlistAction:
			universityID, err := uuid.Parse(a.UniversityID)
			if err != nil {
				s.log.Warn("Chat shortlist action has invalid university id", "value", a.UniversityID)
				continue
			}
			if _, err := s.shortlist.Add(ctx, userID, universityID); err != nil {
				s.log.Warn("Chat shortlist action failed", "university_id", universityID, "error", err)
			}
		case LockAction:
			universityID, err := uuid.Parse(a.UniversityID)
			if err != nil {
				s.log.Warn("Chat lock action has invalid university id", "value", a.UniversityID)
				continue
			}
			if _, err := s.stage.Lock(ctx, userID, universityID); err != nil {
				s.log.Warn("Chat lock action failed", "university_id", universityID, "error", err)
			}
		}
	}
}

func (s *chatService) buildSystemPrompt(ctx context.Context, profile *types.UserProfile, userText string, useRAG bool) string {
	var b strings.Builder
	b.WriteString("You are a study-abroad counsellor guiding a student through a four-stage journey: ")
	b.WriteString("1 profile building, 2 discovery, 3 finalizing, 4 application prep.\n\n")

	fmt.Fprintf(&b, "Student: %s. Current stage: %d (%s). Profile strength: %d%%.\n",
		profile.Name, profile.CurrentStage, profile.CurrentStage, ProfileStrength(profile))
	if profile.TargetField != "" {
		fmt.Fprintf(&b, "Target field: %s.\n", profile.TargetField)
	}
	if profile.StudyGoal != "" {
		fmt.Fprintf(&b, "Study goal: %s.\n", profile.StudyGoal)
	}
	if profile.BudgetMin != nil && profile.BudgetMax != nil {
		fmt.Fprintf(&b, "Budget: %d-%d USD per year.\n", *profile.BudgetMin, *profile.BudgetMax)
	}

	if profile.LockedUniversityID != nil {
		if u, err := s.universities.GetByID(ctx, nil, *profile.LockedUniversityID); err == nil {
			fmt.Fprintf(&b, "\nThe student has LOCKED %s and is in application prep. "+
				"Restrict all recommendations and guidance to %s only; do not suggest other universities.\n",
				u.Name, u.Name)
		}
	}

	if useRAG && s.search != nil {
		if matches, err := s.search.Search(ctx, profile, userText); err == nil && len(matches) > 0 {
			b.WriteString("\nRelevant universities for this student:\n")
			for _, m := range matches {
				fmt.Fprintf(&b, "- %s (%s), id=%s, category=%s", m.Name, m.Country, m.ID, m.Category)
				if m.Rank != nil {
					fmt.Fprintf(&b, ", rank=%d", *m.Rank)
				}
				b.WriteString("\n")
			}
		} else if err != nil {
			s.log.Warn("RAG retrieval failed, continuing without context", "error", err)
		}
	}

	b.WriteString("\nYou may trigger side effects by embedding tags in your reply:\n")
	b.WriteString("[ACTION: task, <title>, <priority low|medium|high|critical>, <stage 1-4>]\n")
	b.WriteString("[ACTION: document, <title>, <type SOP|RESUME|LOR|OTHER>] with the body between ")
	b.WriteString("[[[DOC_CONTENT_START]]] and [[[DOC_CONTENT_END]]]\n")
	b.WriteString("[ACTION: shortlist, <universityId>]\n")
	b.WriteString("[ACTION: lock, <universityId>]\n")
	b.WriteString("Use a tag at most once per reply and only when the student agrees to the step.")
	return b.String()
}

func historyToLLM(history []*types.ChatMessage, limit int) []groq.Message {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]groq.Message, 0, len(history)+1)
	for _, m := range history {
		out = append(out, groq.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
