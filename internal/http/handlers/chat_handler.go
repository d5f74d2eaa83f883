package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	cfg         *config.Config
	log         *zap.Logger
}

func NewChatHandler(chatService *services.ChatService, cfg *config.Config, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, cfg: cfg, log: log}
}

// Chat proxies the assistant reply as server-sent events. Errors before the first frame are JSON.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	if !h.cfg.LLMEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "assistant is not configured"})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	var sessionID uuid.UUID
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			return badRequest(c, "invalid session id")
		}
		sessionID = id
	}

	userID := middleware.GetUserID(c)
	stream, err := h.chatService.Stream(c.UserContext(), userID, services.ChatInput{
		SessionID:   sessionID,
		Message:     req.Message,
		PageContext: req.PageContext,
		Role:        middleware.GetRole(c),
	})
	if err != nil {
		return fail(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With(zap.String("user_id", userID.String()), zap.String("session_id", stream.SessionID.String()))

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		gone := writeSSE(w, "session", fiber.Map{"session_id": stream.SessionID}) != nil

		for chunk := range stream.Text {
			if gone {
				// keep draining so the reply is still stored
				continue
			}
			if err := writeSSE(w, "", fiber.Map{"text": chunk}); err != nil {
				log.Debug("chat client disconnected", zap.Error(err))
				gone = true
			}
		}

		if err := <-stream.Err; err != nil {
			log.Warn("chat stream failed", zap.Error(err))
			if !gone {
				_ = writeSSE(w, "error", fiber.Map{"error": "assistant stream interrupted"})
			}
			return
		}
		if !gone {
			_ = writeSSE(w, "done", fiber.Map{"session_id": stream.SessionID})
		}
	}))

	return nil
}

// writeSSE writes one frame and flushes. An empty event name sends a default message frame.
func writeSSE(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

func (h *ChatHandler) Sessions(c *fiber.Ctx) error {
	sessions, err := h.chatService.Sessions(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sessions})
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	sessionID, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid session id")
	}

	msgs, err := h.chatService.History(c.Context(), middleware.GetUserID(c), sessionID, c.QueryInt("limit", 50))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: msgs})
}
