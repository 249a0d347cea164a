package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reaction kinds a user may apply to a post. A user holds at most one kind
// per post at any time.
const ReactionLove = "❤️"

var reactionLabels = map[string]string{
	ReactionLove: "Love",
	"😂":          "Haha",
	"😮":          "Wow",
	"😢":          "Sad",
	"😡":          "Angry",
	"👍":          "Like",
	"🔥":          "Fire",
}

// IsReactionKind reports whether emoji is a member of the reaction enumeration.
func IsReactionKind(emoji string) bool {
	_, ok := reactionLabels[emoji]
	return ok
}

// ReactionLabel returns the human-readable label for a reaction kind.
func ReactionLabel(emoji string) string {
	return reactionLabels[emoji]
}

// Post represents a social media post stored in MongoDB. Comments and replies
// are embedded: the whole document is the unit of load, mutation and save.
type Post struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID    uint               `json:"author_id" bson:"author_id"`
	Caption     string             `json:"caption" bson:"caption"`
	MediaURL    string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	MediaType   string             `json:"media_type,omitempty" bson:"media_type,omitempty"`
	Hashtags    []string           `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	Reactions   map[string][]uint  `json:"reactions" bson:"reactions"`
	Likes       []uint             `json:"likes" bson:"likes"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty" bson:"scheduled_at,omitempty"`
	Published   bool               `json:"published" bson:"published"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment is embedded in a Post. Its ID is stable and independent of its
// position in the comment sequence.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"id"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Text      string             `json:"text" bson:"text"`
	Likes     []uint             `json:"likes" bson:"likes"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Reply is embedded in a Comment.
type Reply struct {
	ID        primitive.ObjectID `json:"id" bson:"id"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Text      string             `json:"text" bson:"text"`
	Likes     []uint             `json:"likes" bson:"likes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption     string     `json:"caption"`
	MediaURL    string     `json:"media_url,omitempty"`
	MediaType   string     `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// UpdatePostRequest defines the request body for editing a post's caption
type UpdatePostRequest struct {
	Caption string `json:"caption" validate:"required"`
}

func containsUser(set []uint, userID uint) bool {
	for _, id := range set {
		if id == userID {
			return true
		}
	}
	return false
}

func removeUser(set []uint, userID uint) []uint {
	out := set[:0]
	for _, id := range set {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// toggleUser toggles membership of userID in set and reports whether the user
// is a member afterwards.
func toggleUser(set []uint, userID uint) ([]uint, bool) {
	if containsUser(set, userID) {
		return removeUser(set, userID), false
	}
	return append(set, userID), true
}

// ApplyReaction toggles the user's reaction of the given kind. Toggling on
// first removes the user from every other kind, so a user holds at most one
// reaction per post. Returns true when the reaction is present afterwards.
// The likes alias is recomputed and empty kinds are dropped from the map.
func (p *Post) ApplyReaction(userID uint, emoji string) bool {
	if p.Reactions == nil {
		p.Reactions = make(map[string][]uint)
	}

	added := true
	if containsUser(p.Reactions[emoji], userID) {
		p.Reactions[emoji] = removeUser(p.Reactions[emoji], userID)
		added = false
	} else {
		for kind, users := range p.Reactions {
			if kind != emoji {
				p.Reactions[kind] = removeUser(users, userID)
			}
		}
		p.Reactions[emoji] = append(p.Reactions[emoji], userID)
	}

	p.compactReactions()
	p.recomputeLikes()
	return added
}

// ToggleLove toggles membership in the love kind only, leaving other kinds
// untouched. Kept for old clients that predate the reaction enumeration.
func (p *Post) ToggleLove(userID uint) bool {
	if p.Reactions == nil {
		p.Reactions = make(map[string][]uint)
	}

	set, liked := toggleUser(p.Reactions[ReactionLove], userID)
	p.Reactions[ReactionLove] = set

	p.compactReactions()
	p.recomputeLikes()
	return liked
}

func (p *Post) compactReactions() {
	for kind, users := range p.Reactions {
		if len(users) == 0 {
			delete(p.Reactions, kind)
		}
	}
}

// recomputeLikes keeps the likes alias equal to the love kind's set.
func (p *Post) recomputeLikes() {
	love := p.Reactions[ReactionLove]
	p.Likes = make([]uint, len(love))
	copy(p.Likes, love)
}

// AddComment appends a comment with a freshly generated stable id and returns it.
func (p *Post) AddComment(authorID uint, text string) *Comment {
	p.Comments = append(p.Comments, Comment{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Text:      text,
		Likes:     []uint{},
		Replies:   []Reply{},
		CreatedAt: time.Now(),
	})
	return &p.Comments[len(p.Comments)-1]
}

// CommentAt returns the comment at the given position, or nil when the index
// is out of range. Comments are addressed by position at the API boundary.
func (p *Post) CommentAt(index int) *Comment {
	if index < 0 || index >= len(p.Comments) {
		return nil
	}
	return &p.Comments[index]
}

// ToggleLike toggles the user's like on the comment and reports whether the
// like is present afterwards.
func (c *Comment) ToggleLike(userID uint) bool {
	set, liked := toggleUser(c.Likes, userID)
	c.Likes = set
	return liked
}

// AddReply appends a reply with a freshly generated stable id and returns it.
func (c *Comment) AddReply(authorID uint, text string) *Reply {
	c.Replies = append(c.Replies, Reply{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Text:      text,
		Likes:     []uint{},
		CreatedAt: time.Now(),
	})
	return &c.Replies[len(c.Replies)-1]
}

// FindReply returns the reply with the given stable id, or nil.
func (c *Comment) FindReply(replyID primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i]
		}
	}
	return nil
}

// RemoveReply removes the reply with the given stable id, keeping sibling
// order intact. Reports whether a reply was removed.
func (c *Comment) RemoveReply(replyID primitive.ObjectID) bool {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleLike toggles the user's like on the reply.
func (r *Reply) ToggleLike(userID uint) bool {
	set, liked := toggleUser(r.Likes, userID)
	r.Likes = set
	return liked
}
