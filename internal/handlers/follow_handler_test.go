package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type fakeFollowRepository struct {
	follows  []models.Follow
	requests []models.FollowRequest
}

func (r *fakeFollowRepository) CreateFollow(follow *models.Follow) error {
	r.follows = append(r.follows, *follow)
	return nil
}

func (r *fakeFollowRepository) DeleteFollow(followerID, followingID uint) error {
	for i, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			r.follows = append(r.follows[:i], r.follows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepository) GetFollowingIDs(followerID uint) ([]uint, error) { return nil, nil }
func (r *fakeFollowRepository) GetFollowerIDs(followingID uint) ([]uint, error) { return nil, nil }

func (r *fakeFollowRepository) CreateFollowRequest(request *models.FollowRequest) error {
	r.requests = append(r.requests, *request)
	return nil
}

func (r *fakeFollowRepository) GetFollowRequestByID(id uint) (*models.FollowRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFollowRepository) GetPendingRequest(senderID, receiverID uint) (*models.FollowRequest, error) {
	for i, req := range r.requests {
		if req.SenderID == senderID && req.ReceiverID == receiverID && req.Status == models.FollowRequestPending {
			return &r.requests[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFollowRepository) GetPendingRequestsForUser(receiverID uint) ([]models.FollowRequest, error) {
	return nil, nil
}

func (r *fakeFollowRepository) UpdateFollowRequest(request *models.FollowRequest) error { return nil }

func newFollowContext(e *echo.Echo, userID uint, targetID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func TestFollowUserPublicTarget(t *testing.T) {
	follows := &fakeFollowRepository{}
	users := newFakeUserRepository()
	notifs := &fakeNotificationRepository{}
	users.users[1] = &models.User{ID: 1, Username: "target"}
	users.users[2] = &models.User{ID: 2, Username: "actor"}
	handler := NewFollowHandler(follows, users, notifs)
	e := echo.New()

	c, rec := newFollowContext(e, 2, "1")
	if err := handler.FollowUser(c); err != nil {
		t.Fatalf("FollowUser: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if len(follows.follows) != 1 || follows.follows[0].FollowerID != 2 || follows.follows[0].FollowingID != 1 {
		t.Fatalf("follows = %+v", follows.follows)
	}
	if len(notifs.created) != 1 || notifs.created[0].Message != "actor started following you" {
		t.Fatalf("notifications = %+v", notifs.created)
	}
}

func TestFollowUserSucceedsWhenCounterUpdateFails(t *testing.T) {
	follows := &fakeFollowRepository{}
	users := newFakeUserRepository()
	notifs := &fakeNotificationRepository{}
	users.users[1] = &models.User{ID: 1, Username: "target"}
	users.users[2] = &models.User{ID: 2, Username: "actor"}
	users.counterErr = errors.New("counter update failed")
	handler := NewFollowHandler(follows, users, notifs)
	e := echo.New()

	c, rec := newFollowContext(e, 2, "1")
	if err := handler.FollowUser(c); err != nil {
		t.Fatalf("FollowUser with failing counters: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite counter failure", rec.Code)
	}
	if len(follows.follows) != 1 {
		t.Fatalf("follows = %+v, want the follow persisted", follows.follows)
	}
	if len(notifs.created) != 1 {
		t.Fatalf("notifications = %+v, want the follow notification", notifs.created)
	}
}

func TestFollowUserPrivateTargetFilesRequest(t *testing.T) {
	follows := &fakeFollowRepository{}
	users := newFakeUserRepository()
	notifs := &fakeNotificationRepository{}
	users.users[1] = &models.User{ID: 1, Username: "target", IsPrivate: true}
	users.users[2] = &models.User{ID: 2, Username: "actor"}
	handler := NewFollowHandler(follows, users, notifs)
	e := echo.New()

	c, _ := newFollowContext(e, 2, "1")
	if err := handler.FollowUser(c); err != nil {
		t.Fatalf("FollowUser: %v", err)
	}

	if len(follows.follows) != 0 {
		t.Fatalf("follows = %+v, want none until accepted", follows.follows)
	}
	if len(follows.requests) != 1 || follows.requests[0].Status != models.FollowRequestPending {
		t.Fatalf("requests = %+v", follows.requests)
	}

	// A second attempt while pending conflicts
	c, _ = newFollowContext(e, 2, "1")
	err := handler.FollowUser(c)
	if status := httpStatus(t, err); status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
}
