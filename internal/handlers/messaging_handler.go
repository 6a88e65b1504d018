package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
	"github.com/Gampa15/foundin-backend/internal/ws"
)

// MessagingService is the slice of conversation persistence the handler needs.
type MessagingService interface {
	EnsureDirectConversation(ctx context.Context, userID, otherID string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error)
	SendMessage(ctx context.Context, conversationID, sender, content string) (*models.Message, error)
	CountRecentBySender(ctx context.Context, sender string, since time.Time) (int64, error)
	ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error)
	MarkSeen(ctx context.Context, conversationID, userID string) ([]string, error)
}

type MessagingHandler struct {
	messagingService MessagingService
	fraudService     UserFlagger
	rules            services.RuleCatalog
	hub              *ws.Hub
}

func NewMessagingHandler(messagingService MessagingService, fraudService UserFlagger, rules services.RuleCatalog, hub *ws.Hub) *MessagingHandler {
	return &MessagingHandler{
		messagingService: messagingService,
		fraudService:     fraudService,
		rules:            rules,
		hub:              hub,
	}
}

// CreateConversation opens (or returns) the direct conversation between the
// caller and the requested user.
func (h *MessagingHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.UserID == "" || req.UserID == userID {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("A different user is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	conv, err := h.messagingService.EnsureDirectConversation(ctx, userID, req.UserID)
	if err != nil {
		log.Printf("[CreateConversation] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create conversation"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(conv))
}

func (h *MessagingHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	convs, err := h.messagingService.ListConversations(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list conversations"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(convs))
}

func (h *MessagingHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	conversationID := chi.URLParam(r, "conversationId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	conv, err := h.messagingService.GetConversation(ctx, conversationID, userID)
	if err != nil {
		if err == services.ErrConversationNotFound || err == services.ErrNotAMember {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Conversation not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get conversation"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(conv))
}

func (h *MessagingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	conversationID := chi.URLParam(r, "conversationId")

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"content": "Content is required"}))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	h.probeMessageSpam(ctx, userID)

	msg, err := h.messagingService.SendMessage(ctx, conversationID, userID, req.Content)
	if err != nil {
		if err == services.ErrConversationNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Conversation not found"))
			return
		}
		if err == services.ErrNotAMember {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not a member of this conversation"))
			return
		}
		log.Printf("[SendMessage] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send message"))
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToRoom(conversationID, ws.EventNewMessage, msg)
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(msg))
}

// probeMessageSpam flags the sender when their recent message volume crosses
// the spam rule. Advisory only: the message goes through regardless.
func (h *MessagingHandler) probeMessageSpam(ctx context.Context, userID string) {
	rule := h.rules.MessageSpam
	if h.fraudService == nil || !rule.Countable() {
		return
	}

	count, err := h.messagingService.CountRecentBySender(ctx, userID, rule.WindowStart(time.Now().UTC()))
	if err != nil {
		log.Printf("[SendMessage] Probe count failed for %s: %v", userID, err)
		return
	}
	if !rule.Exceeded(count) {
		return
	}

	if err := h.fraudService.FlagUser(ctx, services.FlagRequest{
		UserID:   userID,
		Reason:   rule.Reason,
		Severity: rule.Severity,
	}); err != nil {
		log.Printf("[SendMessage] Flag failed for %s: %v", userID, err)
	}
}

func (h *MessagingHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	conversationID := chi.URLParam(r, "conversationId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	msgs, err := h.messagingService.ListMessages(ctx, conversationID, userID)
	if err != nil {
		if err == services.ErrConversationNotFound || err == services.ErrNotAMember {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Conversation not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list messages"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(msgs))
}

func (h *MessagingHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	conversationID := chi.URLParam(r, "conversationId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	marked, err := h.messagingService.MarkSeen(ctx, conversationID, userID)
	if err != nil {
		if err == services.ErrConversationNotFound || err == services.ErrNotAMember {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Conversation not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to mark messages seen"))
		return
	}

	if h.hub != nil && len(marked) > 0 {
		h.hub.BroadcastToRoom(conversationID, ws.EventMessagesSeen, map[string]interface{}{
			"conversation_id": conversationID,
			"user_id":         userID,
			"message_ids":     marked,
		})
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{"marked": marked}))
}
