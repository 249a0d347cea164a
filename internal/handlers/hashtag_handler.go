package handlers

import (
	"net/http"
	"strconv"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// HashtagHandler handles hashtag browsing and follows
type HashtagHandler struct {
	hashtagRepository repositories.HashtagRepository
	postRepository    repositories.PostRepository
}

// NewHashtagHandler creates a new HashtagHandler
func NewHashtagHandler(hashtagRepo repositories.HashtagRepository, postRepo repositories.PostRepository) *HashtagHandler {
	return &HashtagHandler{
		hashtagRepository: hashtagRepo,
		postRepository:    postRepo,
	}
}

// RegisterHashtagRoutes registers hashtag-related routes
func (h *HashtagHandler) RegisterHashtagRoutes(g *echo.Group) {
	g.GET("/hashtags/:tag/posts", h.GetPostsByHashtag)
	g.POST("/hashtags/:tag/follow", h.FollowHashtag)
	g.DELETE("/hashtags/:tag/follow", h.UnfollowHashtag)
	g.GET("/hashtags/following", h.GetFollowedHashtags)
}

// GetPostsByHashtag returns published posts tagged with the hashtag
func (h *HashtagHandler) GetPostsByHashtag(c echo.Context) error {
	tag := c.Param("tag")
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit == 0 {
		limit = 10
	}

	posts, err := h.postRepository.GetPostsByHashtag(c.Request().Context(), tag, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// FollowHashtag subscribes the user to a hashtag
func (h *HashtagHandler) FollowHashtag(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	tag := c.Param("tag")

	isFollowing, err := h.hashtagRepository.IsFollowingHashtag(currentUserID, tag)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this hashtag")
	}

	follow := &models.HashtagFollow{
		UserID:  currentUserID,
		Hashtag: tag,
	}
	if err := h.hashtagRepository.FollowHashtag(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowHashtag unsubscribes the user from a hashtag
func (h *HashtagHandler) UnfollowHashtag(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.hashtagRepository.UnfollowHashtag(currentUserID, c.Param("tag")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowedHashtags lists the hashtags the user follows
func (h *HashtagHandler) GetFollowedHashtags(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	tags, err := h.hashtagRepository.GetFollowedHashtags(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"hashtags": tags}})
}
