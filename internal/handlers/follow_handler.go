package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow and follow-request HTTP requests.
// Following a private account goes through a pending request the target must
// accept; following a public account takes effect immediately.
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/follow-requests", h.GetFollowRequests)
	g.PUT("/follow-requests/:id", h.RespondToFollowRequest)
}

// FollowUser follows a public user directly, or files a follow request when
// the target account is private.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(uint(targetID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	if target.IsPrivate {
		if _, err := h.followRepository.GetPendingRequest(currentUserID, uint(targetID)); err == nil {
			return echo.NewHTTPError(http.StatusConflict, "Follow request already pending")
		}

		request := &models.FollowRequest{
			SenderID:   currentUserID,
			ReceiverID: uint(targetID),
			Status:     models.FollowRequestPending,
		}
		if err := h.followRepository.CreateFollowRequest(request); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		h.createNotification(&models.Notification{
			Type:        models.NotificationFollow,
			ActorID:     currentUserID,
			RecipientID: uint(targetID),
			Message:     actor.Username + " requested to follow you",
		})

		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"requested": true}})
	}

	if err := h.materializeFollow(currentUserID, uint(targetID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.createNotification(&models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     currentUserID,
		RecipientID: uint(targetID),
		Message:     actor.Username + " started following you",
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

func (h *FollowHandler) materializeFollow(followerID, followingID uint) error {
	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return err
	}
	if err := h.userRepository.IncrementFollowingCount(followerID); err != nil {
		log.Printf("Failed to increment following count for user %d: %v", followerID, err)
	}
	if err := h.userRepository.IncrementFollowersCount(followingID); err != nil {
		log.Printf("Failed to increment followers count for user %d: %v", followingID, err)
	}
	return nil
}

func (h *FollowHandler) createNotification(notification *models.Notification) {
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("Failed to create follow notification: %v", err)
	}
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, uint(targetID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.DecrementFollowingCount(currentUserID); err != nil {
		log.Printf("Failed to decrement following count for user %d: %v", currentUserID, err)
	}
	if err := h.userRepository.DecrementFollowersCount(uint(targetID)); err != nil {
		log.Printf("Failed to decrement followers count for user %d: %v", uint(targetID), err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowRequests lists pending follow requests for the current user
func (h *FollowHandler) GetFollowRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.followRepository.GetPendingRequestsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"requests": requests}})
}

// RespondToFollowRequest accepts or rejects a pending follow request.
// Accepting materializes the follow relationship.
func (h *FollowHandler) RespondToFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.UpdateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.followRepository.GetFollowRequestByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Follow request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if request.ReceiverID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to respond to this request")
	}
	if request.Status != models.FollowRequestPending {
		return echo.NewHTTPError(http.StatusConflict, "Follow request already handled")
	}

	request.Status = req.Status
	if err := h.followRepository.UpdateFollowRequest(request); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Status == models.FollowRequestAccepted {
		if err := h.materializeFollow(request.SenderID, request.ReceiverID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		receiver, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			h.createNotification(&models.Notification{
				Type:        models.NotificationFollow,
				ActorID:     currentUserID,
				RecipientID: request.SenderID,
				Message:     receiver.Username + " accepted your follow request",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": request.Status}})
}
