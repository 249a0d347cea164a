package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles conversation and message HTTP requests
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
}

// GetConversations lists the user's conversations, most recently active first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conversations, err := h.messageRepository.GetConversationsForUser(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": conversations}})
}

// CreateConversation starts a conversation. A direct conversation between two
// users is reused when one already exists.
func (h *MessageHandler) CreateConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	participants := []uint{currentUserID}
	for _, id := range req.ParticipantIDs {
		if id == currentUserID {
			continue
		}
		if _, err := h.userRepository.GetUserByID(id); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Participant not found")
		}
		participants = append(participants, id)
	}

	if len(participants) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "A conversation needs at least one other participant")
	}

	isGroup := len(participants) > 2

	if !isGroup {
		existing, err := h.messageRepository.GetDirectConversation(c.Request().Context(), participants[0], participants[1])
		if err == nil {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversation": existing}})
		}
		if !errors.Is(err, repositories.ErrConversationNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	conversation := &models.Conversation{
		Participants: participants,
		IsGroup:      isGroup,
		Name:         req.Name,
		CreatedBy:    currentUserID,
	}

	if err := h.messageRepository.CreateConversation(c.Request().Context(), conversation); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"conversation": conversation}})
}

// GetMessages lists messages in a conversation, newest first
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conversation, err := h.loadConversation(c, currentUserID)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 30
	}
	skip := int64((page - 1) * limit)

	messages, err := h.messageRepository.GetMessages(c.Request().Context(), conversation.ID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": messages}})
}

// SendMessage posts a message into a conversation the user participates in
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conversation, err := h.loadConversation(c, currentUserID)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       currentUserID,
		Text:           req.Text,
	}

	if err := h.messageRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.messageRepository.TouchConversation(c.Request().Context(), conversation.ID, req.Text); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"message": message}})
}

// loadConversation fetches the conversation and checks the user is a participant
func (h *MessageHandler) loadConversation(c echo.Context, userID uint) (*models.Conversation, error) {
	conversation, err := h.messageRepository.GetConversationByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for _, p := range conversation.Participants {
		if p == userID {
			return conversation, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusForbidden, "You are not a participant in this conversation")
}
