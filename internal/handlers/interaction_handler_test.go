package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type fakePostRepository struct {
	posts map[string]*models.Post
}

func newFakePostRepository() *fakePostRepository {
	return &fakePostRepository{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

func (r *fakePostRepository) SavePost(ctx context.Context, post *models.Post) error {
	if _, ok := r.posts[post.ID.Hex()]; !ok {
		return repositories.ErrPostNotFound
	}
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	return nil, nil
}

func (r *fakePostRepository) GetFeedPosts(ctx context.Context, authorIDs []uint, hashtags []string, skip, limit int64) ([]models.Post, error) {
	return nil, nil
}

func (r *fakePostRepository) CountFeedPosts(ctx context.Context, authorIDs []uint, hashtags []string) (int64, error) {
	return 0, nil
}

func (r *fakePostRepository) GetPostsByHashtag(ctx context.Context, hashtag string, skip, limit int64) ([]models.Post, error) {
	return nil, nil
}

func (r *fakePostRepository) DeletePost(ctx context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepository) GetDueScheduledPosts(ctx context.Context, now time.Time) ([]models.Post, error) {
	return nil, nil
}

func (r *fakePostRepository) MarkPublished(ctx context.Context, id primitive.ObjectID, publishedAt time.Time) error {
	return nil
}

type fakeUserRepository struct {
	users      map[uint]*models.User
	counterErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepository) CreateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) GetUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) UpdateUser(user *models.User) error { return nil }
func (r *fakeUserRepository) DeleteUser(id uint) error           { return nil }
func (r *fakeUserRepository) SearchUsers(query string) ([]models.User, error) {
	return nil, nil
}
func (r *fakeUserRepository) IncrementFollowersCount(id uint) error { return r.counterErr }
func (r *fakeUserRepository) DecrementFollowersCount(id uint) error { return r.counterErr }
func (r *fakeUserRepository) IncrementFollowingCount(id uint) error { return r.counterErr }
func (r *fakeUserRepository) DecrementFollowingCount(id uint) error { return r.counterErr }

type fakeNotificationRepository struct {
	created []models.Notification
	deletes []repositories.NotificationFilter
}

func (r *fakeNotificationRepository) CreateNotification(notification *models.Notification) error {
	r.created = append(r.created, *notification)
	return nil
}

// DeleteOne mirrors the real repository: remove at most one match, no-op when
// nothing matches.
func (r *fakeNotificationRepository) DeleteOne(filter repositories.NotificationFilter) error {
	r.deletes = append(r.deletes, filter)
	for i, n := range r.created {
		if n.RecipientID != filter.RecipientID || n.ActorID != filter.ActorID || n.Type != filter.Type {
			continue
		}
		if filter.PostID != "" && n.PostID != filter.PostID {
			continue
		}
		r.created = append(r.created[:i], r.created[i+1:]...)
		return nil
	}
	return nil
}

func (r *fakeNotificationRepository) DeleteManyByPost(postID string) error { return nil }
func (r *fakeNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (r *fakeNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) { return 0, nil }
func (r *fakeNotificationRepository) MarkAsRead(notificationID uint) error           { return nil }
func (r *fakeNotificationRepository) MarkAllAsRead(recipientID uint) error           { return nil }

type interactionFixture struct {
	handler *InteractionHandler
	posts   *fakePostRepository
	users   *fakeUserRepository
	notifs  *fakeNotificationRepository
	post    *models.Post
	echo    *echo.Echo
}

// newInteractionFixture seeds a post authored by user 1 and two more users.
func newInteractionFixture(t *testing.T) *interactionFixture {
	t.Helper()

	posts := newFakePostRepository()
	users := newFakeUserRepository()
	notifs := &fakeNotificationRepository{}

	users.users[1] = &models.User{ID: 1, Username: "author"}
	users.users[2] = &models.User{ID: 2, Username: "reader"}
	users.users[3] = &models.User{ID: 3, Username: "friend"}

	post := &models.Post{AuthorID: 1, Caption: "hello"}
	if err := posts.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	return &interactionFixture{
		handler: NewInteractionHandler(posts, users, notifs),
		posts:   posts,
		users:   users,
		notifs:  notifs,
		post:    post,
		echo:    echo.New(),
	}
}

func (f *interactionFixture) request(method, body string, userID uint, paramNames, paramValues []string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestReactToPostRejectsUnknownEmoji(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPut, "", 2, []string{"id", "emoji"}, []string{f.post.ID.Hex(), "🙃"})
	err := f.handler.ReactToPost(c)
	if status := httpStatus(t, err); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestReactToPostUnknownPost(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPut, "", 2, []string{"id", "emoji"}, []string{primitive.NewObjectID().Hex(), "🔥"})
	err := f.handler.ReactToPost(c)
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestReactToPostToggleOnNotifiesAuthor(t *testing.T) {
	f := newInteractionFixture(t)

	c, rec := f.request(http.MethodPut, "", 2, []string{"id", "emoji"}, []string{f.post.ID.Hex(), "🔥"})
	if err := f.handler.ReactToPost(c); err != nil {
		t.Fatalf("ReactToPost: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	stored := f.posts.posts[f.post.ID.Hex()]
	if got := stored.Reactions["🔥"]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("reactions = %v, want user 2 under 🔥", stored.Reactions)
	}

	if len(f.notifs.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifs.created))
	}
	n := f.notifs.created[0]
	if n.Type != models.NotificationReaction || n.RecipientID != 1 || n.ActorID != 2 {
		t.Fatalf("notification = %+v", n)
	}
	if n.Message != "Fire reacted to your post" {
		t.Fatalf("message = %q", n.Message)
	}
}

func TestReactToPostToggleOffKeepsNotifications(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPut, "", 2, []string{"id", "emoji"}, []string{f.post.ID.Hex(), "🔥"})
	if err := f.handler.ReactToPost(c); err != nil {
		t.Fatalf("first ReactToPost: %v", err)
	}
	c, _ = f.request(http.MethodPut, "", 2, []string{"id", "emoji"}, []string{f.post.ID.Hex(), "🔥"})
	if err := f.handler.ReactToPost(c); err != nil {
		t.Fatalf("second ReactToPost: %v", err)
	}

	stored := f.posts.posts[f.post.ID.Hex()]
	if len(stored.Reactions) != 0 {
		t.Fatalf("reactions = %v after round trip, want empty", stored.Reactions)
	}
	// The general toggle never deletes notifications on the way off.
	if len(f.notifs.deletes) != 0 {
		t.Fatalf("deletes = %v, want none", f.notifs.deletes)
	}
	if len(f.notifs.created) != 1 {
		t.Fatalf("notifications = %d, want the toggle-on one kept", len(f.notifs.created))
	}
}

func TestReactToPostSelfReactionNoNotification(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPut, "", 1, []string{"id", "emoji"}, []string{f.post.ID.Hex(), "👍"})
	if err := f.handler.ReactToPost(c); err != nil {
		t.Fatalf("ReactToPost: %v", err)
	}
	if len(f.notifs.created) != 0 {
		t.Fatalf("notifications = %v, want none for self-reaction", f.notifs.created)
	}
}

func TestLikePostUnlikeDeletesNotification(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPut, "", 2, []string{"id"}, []string{f.post.ID.Hex()})
	if err := f.handler.LikePost(c); err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(f.notifs.created) != 1 || f.notifs.created[0].Message != "Loved your post" {
		t.Fatalf("notifications after like = %+v", f.notifs.created)
	}

	c, _ = f.request(http.MethodPut, "", 2, []string{"id"}, []string{f.post.ID.Hex()})
	if err := f.handler.LikePost(c); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	if len(f.notifs.created) != 0 {
		t.Fatalf("notifications after unlike = %+v, want deleted", f.notifs.created)
	}
	if len(f.notifs.deletes) != 1 || f.notifs.deletes[0].PostID != f.post.ID.Hex() {
		t.Fatalf("deletes = %+v, want one scoped to the post", f.notifs.deletes)
	}

	stored := f.posts.posts[f.post.ID.Hex()]
	if len(stored.Likes) != 0 {
		t.Fatalf("likes = %v after unlike, want empty", stored.Likes)
	}
}

func TestAddCommentNotifiesAuthorAndMentions(t *testing.T) {
	f := newInteractionFixture(t)

	c, rec := f.request(http.MethodPost, `{"text":"nice shot @friend"}`, 2, []string{"id"}, []string{f.post.ID.Hex()})
	if err := f.handler.AddComment(c); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	stored := f.posts.posts[f.post.ID.Hex()]
	if len(stored.Comments) != 1 || stored.Comments[0].Text != "nice shot @friend" {
		t.Fatalf("comments = %+v", stored.Comments)
	}
	if stored.Comments[0].ID.IsZero() {
		t.Fatalf("comment id not assigned")
	}

	if len(f.notifs.created) != 2 {
		t.Fatalf("notifications = %d, want comment + mention", len(f.notifs.created))
	}
	commentNotif := f.notifs.created[0]
	if commentNotif.Type != models.NotificationComment || commentNotif.RecipientID != 1 {
		t.Fatalf("comment notification = %+v", commentNotif)
	}
	if commentNotif.CommentID != stored.Comments[0].ID.Hex() {
		t.Fatalf("comment notification references %q, want %q", commentNotif.CommentID, stored.Comments[0].ID.Hex())
	}
	mentionNotif := f.notifs.created[1]
	if mentionNotif.Type != models.NotificationMention || mentionNotif.RecipientID != 3 {
		t.Fatalf("mention notification = %+v", mentionNotif)
	}
	if mentionNotif.MentionedIn != "comment" {
		t.Fatalf("mentioned_in = %q, want comment", mentionNotif.MentionedIn)
	}
}

func TestAddCommentUnresolvedMentionDropped(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPost, `{"text":"hey @nobody"}`, 2, []string{"id"}, []string{f.post.ID.Hex()})
	if err := f.handler.AddComment(c); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	for _, n := range f.notifs.created {
		if n.Type == models.NotificationMention {
			t.Fatalf("unexpected mention notification %+v", n)
		}
	}
}

func TestLikeCommentBadIndex(t *testing.T) {
	f := newInteractionFixture(t)
	f.post.AddComment(1, "a comment")

	for _, index := range []string{"5", "-1", "abc"} {
		c, _ := f.request(http.MethodPut, "", 2, []string{"id", "index"}, []string{f.post.ID.Hex(), index})
		err := f.handler.LikeComment(c)
		if status := httpStatus(t, err); status != http.StatusNotFound {
			t.Fatalf("index %q: status = %d, want 404", index, status)
		}
	}
}

func TestLikeCommentUnlikeDeleteIsUnscoped(t *testing.T) {
	f := newInteractionFixture(t)
	f.post.AddComment(3, "a comment")

	c, _ := f.request(http.MethodPut, "", 2, []string{"id", "index"}, []string{f.post.ID.Hex(), "0"})
	if err := f.handler.LikeComment(c); err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(f.notifs.created) != 1 || f.notifs.created[0].Message != "Liked your comment" {
		t.Fatalf("notifications = %+v", f.notifs.created)
	}

	c, _ = f.request(http.MethodPut, "", 2, []string{"id", "index"}, []string{f.post.ID.Hex(), "0"})
	if err := f.handler.LikeComment(c); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	if len(f.notifs.deletes) != 1 {
		t.Fatalf("deletes = %+v, want one", f.notifs.deletes)
	}
	del := f.notifs.deletes[0]
	if del.Type != models.NotificationLike || del.RecipientID != 3 || del.ActorID != 2 {
		t.Fatalf("delete filter = %+v", del)
	}
	if del.PostID != "" {
		t.Fatalf("delete filter scoped to post %q, want unscoped", del.PostID)
	}
}

func TestAddReplyNotifiesCommentAuthor(t *testing.T) {
	f := newInteractionFixture(t)
	comment := f.post.AddComment(3, "parent")

	c, rec := f.request(http.MethodPost, `{"text":"a reply"}`, 2, []string{"id", "index"}, []string{f.post.ID.Hex(), "0"})
	if err := f.handler.AddReply(c); err != nil {
		t.Fatalf("AddReply: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var reply models.Reply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Text != "a reply" || reply.AuthorID != 2 {
		t.Fatalf("reply = %+v", reply)
	}

	if len(f.notifs.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifs.created))
	}
	n := f.notifs.created[0]
	if n.RecipientID != 3 || n.MentionedIn != "reply" || n.CommentID != comment.ID.Hex() {
		t.Fatalf("notification = %+v", n)
	}
}

func TestDeleteReplyAuthorOnly(t *testing.T) {
	f := newInteractionFixture(t)
	comment := f.post.AddComment(1, "parent")
	reply := comment.AddReply(2, "mine")
	replyID := reply.ID.Hex()

	c, _ := f.request(http.MethodDelete, "", 3, []string{"id", "index", "reply_id"}, []string{f.post.ID.Hex(), "0", replyID})
	err := f.handler.DeleteReply(c)
	if status := httpStatus(t, err); status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}

	c, rec := f.request(http.MethodDelete, "", 2, []string{"id", "index", "reply_id"}, []string{f.post.ID.Hex(), "0", replyID})
	if err := f.handler.DeleteReply(c); err != nil {
		t.Fatalf("DeleteReply: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	stored := f.posts.posts[f.post.ID.Hex()]
	if len(stored.Comments[0].Replies) != 0 {
		t.Fatalf("replies = %+v after delete, want empty", stored.Comments[0].Replies)
	}
}

func TestDeleteReplyUnknownReply(t *testing.T) {
	f := newInteractionFixture(t)
	f.post.AddComment(1, "parent")

	c, _ := f.request(http.MethodDelete, "", 2, []string{"id", "index", "reply_id"}, []string{f.post.ID.Hex(), "0", primitive.NewObjectID().Hex()})
	err := f.handler.DeleteReply(c)
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestLikeReplyEmitsNoNotification(t *testing.T) {
	f := newInteractionFixture(t)
	comment := f.post.AddComment(3, "parent")
	reply := comment.AddReply(3, "their reply")
	replyID := reply.ID.Hex()

	c, _ := f.request(http.MethodPut, "", 2, []string{"id", "index", "reply_id"}, []string{f.post.ID.Hex(), "0", replyID})
	if err := f.handler.LikeReply(c); err != nil {
		t.Fatalf("LikeReply: %v", err)
	}

	stored := f.posts.posts[f.post.ID.Hex()]
	if got := stored.Comments[0].Replies[0].Likes; len(got) != 1 || got[0] != 2 {
		t.Fatalf("reply likes = %v, want [2]", got)
	}
	if len(f.notifs.created) != 0 {
		t.Fatalf("notifications = %+v, want none", f.notifs.created)
	}

	c, _ = f.request(http.MethodPut, "", 2, []string{"id", "index", "reply_id"}, []string{f.post.ID.Hex(), "0", replyID})
	if err := f.handler.LikeReply(c); err != nil {
		t.Fatalf("second LikeReply: %v", err)
	}
	if got := f.posts.posts[f.post.ID.Hex()].Comments[0].Replies[0].Likes; len(got) != 0 {
		t.Fatalf("reply likes = %v after round trip, want empty", got)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	f := newInteractionFixture(t)

	c, _ := f.request(http.MethodPut, "", 0, []string{"id", "emoji"}, []string{f.post.ID.Hex(), "🔥"})
	err := f.handler.ReactToPost(c)
	if status := httpStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}
