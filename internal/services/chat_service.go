package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/models"
)

const maxPageContextLength = 500

type ChatService struct {
	chatRepo     ChatStore
	campaignRepo CampaignStore
	llm          LLMStreamer
	historyLimit int
	log          *zap.Logger
}

func NewChatService(
	chatRepo ChatStore,
	campaignRepo CampaignStore,
	llm LLMStreamer,
	historyLimit int,
	log *zap.Logger,
) *ChatService {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &ChatService{
		chatRepo:     chatRepo,
		campaignRepo: campaignRepo,
		llm:          llm,
		historyLimit: historyLimit,
		log:          log,
	}
}

type ChatInput struct {
	SessionID   uuid.UUID
	Message     string
	PageContext string
	Role        string
}

type ChatStream struct {
	SessionID uuid.UUID
	Text      <-chan string
	Err       <-chan error
}

// Stream stores the user turn, starts the completion and stores the assistant turn
// once the upstream finishes cleanly.
func (s *ChatService) Stream(ctx context.Context, userID uuid.UUID, in ChatInput) (*ChatStream, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(message) > models.MaxChatMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", models.ErrInvalidInput, models.MaxChatMessageLength)
	}
	if s.llm == nil {
		return nil, ErrLLMUnavailable
	}

	sessionID := in.SessionID
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}

	history, err := s.chatRepo.ListBySession(ctx, userID, sessionID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	campaigns, err := s.campaignRepo.ListAll(ctx, &userID, nil)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	summary := models.Summarize(campaigns)

	req := LLMRequest{
		System:   BuildSystemPrompt(in.Role, summary, in.PageContext),
		Messages: make([]LLMMessage, 0, len(history)+1),
	}
	for _, m := range history {
		req.Messages = append(req.Messages, LLMMessage{Role: m.Role, Content: m.Content})
	}
	req.Messages = append(req.Messages, LLMMessage{Role: models.ChatRoleUser, Content: message})

	if err := s.chatRepo.Create(ctx, &models.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      models.ChatRoleUser,
		Content:   message,
	}); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	upstream, upstreamErr, err := s.llm.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	textCh := make(chan string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(textCh)

		var reply strings.Builder
		for chunk := range upstream {
			reply.WriteString(chunk)
			select {
			case textCh <- chunk:
			case <-ctx.Done():
			}
		}

		if err := <-upstreamErr; err != nil {
			errCh <- err
			return
		}
		if reply.Len() == 0 {
			return
		}

		// the client may already be gone, the reply is still worth keeping
		storeCtx := context.WithoutCancel(ctx)
		if err := s.chatRepo.Create(storeCtx, &models.ChatMessage{
			UserID:    userID,
			SessionID: sessionID,
			Role:      models.ChatRoleAssistant,
			Content:   reply.String(),
		}); err != nil {
			s.log.Error("failed to store assistant reply", zap.String("session_id", sessionID.String()), zap.Error(err))
		}
	}()

	return &ChatStream{SessionID: sessionID, Text: textCh, Err: errCh}, nil
}

func (s *ChatService) History(ctx context.Context, userID, sessionID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	return s.chatRepo.ListBySession(ctx, userID, sessionID, limit)
}

func (s *ChatService) Sessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	return s.chatRepo.Sessions(ctx, userID)
}

var roleBriefs = map[string]string{
	models.RoleMediaBuyer:      "The user is a media buyer running paid campaigns across DSPs. Focus on CAC, ROAS and budget allocation.",
	models.RoleDataOwner:       "The user is a data owner monetizing first-party data on the marketplace. Focus on listing quality, pricing and earnings.",
	models.RoleSolutionCreator: "The user is a solution creator publishing add-ons to the marketplace. Focus on adoption, pricing and integration.",
}

// BuildSystemPrompt assembles the assistant persona from the caller's role, campaign totals and page.
func BuildSystemPrompt(role string, summary models.CampaignSummary, pageContext string) string {
	var b strings.Builder
	b.WriteString("You are Precise, the AI assistant of the Precise.ai advertising platform. ")
	b.WriteString("Answer concisely, use concrete numbers when they are available and never invent metrics.\n")

	if brief, ok := roleBriefs[role]; ok {
		b.WriteString(brief)
		b.WriteString("\n")
	}

	if summary.Total > 0 {
		fmt.Fprintf(&b, "Account snapshot: %d campaign(s)", summary.Total)
		if n := summary.ByStatus[models.CampaignStatusActive]; n > 0 {
			fmt.Fprintf(&b, ", %d active", n)
		}
		fmt.Fprintf(&b, "; total spend $%s, revenue $%s, blended ROAS %sx, average CAC improvement %s%%.\n",
			summary.TotalSpend.StringFixed(2), summary.TotalRevenue.StringFixed(2),
			summary.BlendedROAS.StringFixed(2), summary.CACImprovement.StringFixed(2))
	} else {
		b.WriteString("The user has no campaigns yet.\n")
	}

	pageContext = strings.TrimSpace(pageContext)
	if pageContext != "" {
		if utf8.RuneCountInString(pageContext) > maxPageContextLength {
			pageContext = string([]rune(pageContext)[:maxPageContextLength])
		}
		fmt.Fprintf(&b, "The user is currently viewing: %s\n", pageContext)
	}

	return b.String()
}
