package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository      repositories.PostRepository
	userRepository      repositories.UserRepository
	followRepository    repositories.FollowRepository
	hashtagRepository   repositories.HashtagRepository
	savedPostRepository repositories.SavedPostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	hashtagRepo repositories.HashtagRepository,
	savedPostRepo repositories.SavedPostRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:      postRepo,
		userRepository:      userRepo,
		followRepository:    followRepo,
		hashtagRepository:   hashtagRepo,
		savedPostRepository: savedPostRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with author info and user-specific flags
type EnrichedPost struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
	IsSaved bool               `json:"is_saved"`
}

// GetFeed returns posts from followed users, the user's own posts and posts
// carrying followed hashtags, newest first.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	skip := int64((page - 1) * limit)

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs := append(followingIDs, currentUserID)

	hashtags, err := h.hashtagRepository.GetFollowedHashtags(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetFeedPosts(c.Request().Context(), authorIDs, hashtags, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalItems, err := h.postRepository.CountFeedPosts(c.Request().Context(), authorIDs, hashtags)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Build user map for post authors
	userMap := make(map[uint]models.UserCompact)
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		if _, ok := userMap[p.AuthorID]; !ok {
			user, err := h.userRepository.GetUserByID(p.AuthorID)
			if err == nil {
				userMap[p.AuthorID] = user.ToCompact()
			}
		}
	}

	savedMap, _ := h.savedPostRepository.GetSavedPostIDs(currentUserID, postIDs)

	enrichedPosts := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		isLiked := false
		for _, id := range p.Likes {
			if id == currentUserID {
				isLiked = true
				break
			}
		}
		enrichedPosts[i] = EnrichedPost{
			Post:    p,
			Author:  userMap[p.AuthorID],
			IsLiked: isLiked,
			IsSaved: savedMap[p.ID.Hex()],
		}
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enrichedPosts,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}
