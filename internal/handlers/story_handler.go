package handlers

import (
	"net/http"
	"time"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.GET("/stories/:id", h.GetStory)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/:id/seen", h.MarkAsSeen)
	g.POST("/stories/:id/react", h.ReactToStory)
}

// StoryResponse is the enriched story response
type StoryResponse struct {
	ID             string             `json:"id"`
	Author         models.UserCompact `json:"author"`
	Items          []models.StoryItem `json:"items"`
	HasUnseenItems bool               `json:"has_unseen_items"`
	ExpiresAt      string             `json:"expires_at"`
}

// GetStories returns active stories grouped into the current user's own story
// and everyone else's, each flagged with unseen status.
func (h *StoryHandler) GetStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stories, err := h.storyRepository.GetActiveStories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userMap := make(map[uint]models.UserCompact)
	storyIDs := make([]string, len(stories))
	for i, s := range stories {
		storyIDs[i] = s.ID.Hex()
		if _, ok := userMap[s.AuthorID]; !ok {
			user, err := h.userRepository.GetUserByID(s.AuthorID)
			if err == nil {
				userMap[s.AuthorID] = user.ToCompact()
			}
		}
	}

	seenMap, _ := h.storyRepository.GetSeenStoryIDs(currentUserID, storyIDs)

	var currentUserStory *StoryResponse
	otherStories := make([]StoryResponse, 0, len(stories))

	for _, s := range stories {
		resp := StoryResponse{
			ID:             s.ID.Hex(),
			Author:         userMap[s.AuthorID],
			Items:          s.Items,
			HasUnseenItems: !seenMap[s.ID.Hex()],
			ExpiresAt:      s.ExpiresAt.Format(time.RFC3339),
		}

		if s.AuthorID == currentUserID {
			currentUserStory = &resp
			continue
		}
		otherStories = append(otherStories, resp)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"stories":          otherStories,
			"currentUserStory": currentUserStory,
		},
	})
}

// GetStory returns a single story
func (h *StoryHandler) GetStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	var author models.UserCompact
	user, err := h.userRepository.GetUserByID(story.AuthorID)
	if err == nil {
		author = user.ToCompact()
	}

	hasSeen, _ := h.storyRepository.HasSeen(story.ID.Hex(), currentUserID)

	resp := StoryResponse{
		ID:             story.ID.Hex(),
		Author:         author,
		Items:          story.Items,
		HasUnseenItems: !hasSeen,
		ExpiresAt:      story.ExpiresAt.Format(time.RFC3339),
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": resp}})
}

// CreateStory adds an item to the user's active story, creating the story
// when none is active. The story expires 24 hours after creation.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item := models.StoryItem{
		ID:        uuid.NewString(),
		Type:      req.Type,
		URL:       req.MediaURL,
		Duration:  5,
		CreatedAt: time.Now(),
	}

	existing, err := h.storyRepository.GetActiveStoryByAuthor(c.Request().Context(), currentUserID)
	if err == nil {
		if err := h.storyRepository.AppendStoryItem(c.Request().Context(), existing.ID, item); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		existing.Items = append(existing.Items, item)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": existing}})
	}

	story := &models.Story{
		AuthorID: currentUserID,
		Items:    []models.StoryItem{item},
	}

	if err := h.storyRepository.CreateStory(c.Request().Context(), story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"story": story}})
}

// MarkAsSeen records that the current user viewed a story
func (h *StoryHandler) MarkAsSeen(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	storyID := c.Param("id")

	hasSeen, _ := h.storyRepository.HasSeen(storyID, currentUserID)
	if hasSeen {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
	}

	storySeen := &models.StorySeen{
		StoryID: storyID,
		UserID:  currentUserID,
	}

	if err := h.storyRepository.MarkSeen(storySeen); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// ReactToStory adds a reaction to a story
func (h *StoryHandler) ReactToStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Reaction string `json:"reaction" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reaction := &models.StoryReaction{
		StoryID:  c.Param("id"),
		UserID:   currentUserID,
		Reaction: req.Reaction,
	}

	if err := h.storyRepository.AddReaction(reaction); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}
