package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/rasel97/snapthread/backend/internal/mentions"
	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionHandler handles reactions, comments and replies on posts.
// Every operation follows the same script: load the post aggregate, mutate it
// in memory, save it back, then emit notification side effects. A failed
// notification write is logged and never fails the request.
type InteractionHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *InteractionHandler {
	return &InteractionHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterInteractionRoutes registers reaction/comment/reply routes
func (h *InteractionHandler) RegisterInteractionRoutes(g *echo.Group) {
	g.PUT("/posts/:id/reaction/:emoji", h.ReactToPost)
	g.PUT("/posts/:id/like", h.LikePost)
	g.POST("/posts/:id/comment", h.AddComment)
	g.PUT("/posts/:id/comment/:index/like", h.LikeComment)
	g.POST("/posts/:id/comment/:index/reply", h.AddReply)
	g.DELETE("/posts/:id/comment/:index/reply/:reply_id", h.DeleteReply)
	g.PUT("/posts/:id/comment/:index/reply/:reply_id/like", h.LikeReply)
}

// CommentRequest defines the request body for comments and replies. Empty
// text is accepted.
type CommentRequest struct {
	Text string `json:"text"`
}

func (h *InteractionHandler) loadPost(c echo.Context) (*models.Post, error) {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return post, nil
}

func (h *InteractionHandler) notify(notification *models.Notification) {
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("Failed to create %s notification: %v", notification.Type, err)
	}
}

// notifyMentions resolves @username tokens in text and notifies each resolved
// user. Unresolvable usernames are dropped silently; the actor never notifies
// themselves.
func (h *InteractionHandler) notifyMentions(text, mentionedIn string, actorID uint, postID, commentID string) {
	for _, username := range mentions.Extract(text) {
		user, err := h.userRepository.GetUserByUsername(username)
		if err != nil {
			continue
		}
		if user.ID == actorID {
			continue
		}
		h.notify(&models.Notification{
			Type:        models.NotificationMention,
			ActorID:     actorID,
			RecipientID: user.ID,
			PostID:      postID,
			CommentID:   commentID,
			MentionedIn: mentionedIn,
			Message:     text,
		})
	}
}

// ReactToPost toggles the user's reaction of the given kind on a post.
// Toggling on displaces any other reaction the user holds on the post and
// notifies the author; toggling off removes the reaction without touching
// notifications.
func (h *InteractionHandler) ReactToPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	emoji := c.Param("emoji")
	if !models.IsReactionKind(emoji) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reaction kind")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	added := post.ApplyReaction(currentUserID, emoji)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if added && currentUserID != post.AuthorID {
		h.notify(&models.Notification{
			Type:        models.NotificationReaction,
			ActorID:     currentUserID,
			RecipientID: post.AuthorID,
			PostID:      post.ID.Hex(),
			Message:     models.ReactionLabel(emoji) + " reacted to your post",
		})
	}

	return c.JSON(http.StatusOK, post)
}

// LikePost is the legacy love-only toggle kept for old clients. Unlike the
// general reaction endpoint it deletes the matching notification on unlike.
func (h *InteractionHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	liked := post.ToggleLove(currentUserID)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUserID != post.AuthorID {
		if liked {
			h.notify(&models.Notification{
				Type:        models.NotificationReaction,
				ActorID:     currentUserID,
				RecipientID: post.AuthorID,
				PostID:      post.ID.Hex(),
				Message:     "Loved your post",
			})
		} else {
			if err := h.notificationRepository.DeleteOne(repositories.NotificationFilter{
				RecipientID: post.AuthorID,
				ActorID:     currentUserID,
				Type:        models.NotificationReaction,
				PostID:      post.ID.Hex(),
			}); err != nil {
				log.Printf("Failed to delete reaction notification: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, post)
}

// AddComment appends a comment to a post, notifies the post author and fans
// out mention notifications.
func (h *InteractionHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	comment := post.AddComment(currentUserID, req.Text)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUserID != post.AuthorID {
		h.notify(&models.Notification{
			Type:        models.NotificationComment,
			ActorID:     currentUserID,
			RecipientID: post.AuthorID,
			PostID:      post.ID.Hex(),
			CommentID:   comment.ID.Hex(),
			Message:     req.Text,
		})
	}
	h.notifyMentions(req.Text, "comment", currentUserID, post.ID.Hex(), comment.ID.Hex())

	return c.JSON(http.StatusOK, post)
}

// LikeComment toggles the user's like on the comment at the given position.
// The unlike path deletes one like-notification matching only (recipient,
// actor, type) — the match is not scoped to this post or comment.
func (h *InteractionHandler) LikeComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment := post.CommentAt(index)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	liked := comment.ToggleLike(currentUserID)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.AuthorID != currentUserID {
		if liked {
			h.notify(&models.Notification{
				Type:        models.NotificationLike,
				ActorID:     currentUserID,
				RecipientID: comment.AuthorID,
				PostID:      post.ID.Hex(),
				Message:     "Liked your comment",
			})
		} else {
			if err := h.notificationRepository.DeleteOne(repositories.NotificationFilter{
				RecipientID: comment.AuthorID,
				ActorID:     currentUserID,
				Type:        models.NotificationLike,
			}); err != nil {
				log.Printf("Failed to delete like notification: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, post)
}

// AddReply appends a reply to the comment at the given position and returns
// the created reply. The comment author's notification references the
// comment's stable id, not the reply's.
func (h *InteractionHandler) AddReply(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment := post.CommentAt(index)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	reply := comment.AddReply(currentUserID, req.Text)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.AuthorID != currentUserID {
		h.notify(&models.Notification{
			Type:        models.NotificationComment,
			ActorID:     currentUserID,
			RecipientID: comment.AuthorID,
			PostID:      post.ID.Hex(),
			CommentID:   comment.ID.Hex(),
			MentionedIn: "reply",
			Message:     req.Text,
		})
	}
	h.notifyMentions(req.Text, "reply", currentUserID, post.ID.Hex(), comment.ID.Hex())

	return c.JSON(http.StatusCreated, reply)
}

// DeleteReply removes a reply by stable id. Only the reply's author may
// delete it; related notifications are left in place.
func (h *InteractionHandler) DeleteReply(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	replyID, err := primitive.ObjectIDFromHex(c.Param("reply_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment := post.CommentAt(index)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	reply := comment.FindReply(replyID)
	if reply == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}
	if reply.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this reply")
	}

	comment.RemoveReply(replyID)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Reply deleted"})
}

// LikeReply toggles the user's like on a reply. No notification is emitted.
func (h *InteractionHandler) LikeReply(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	replyID, err := primitive.ObjectIDFromHex(c.Param("reply_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}

	post, err := h.loadPost(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment := post.CommentAt(index)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	reply := comment.FindReply(replyID)
	if reply == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}

	reply.ToggleLike(currentUserID)

	if err := h.postRepository.SavePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, reply)
}
