package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyReactionTogglesOnAndOff(t *testing.T) {
	p := &Post{}

	if added := p.ApplyReaction(1, "🔥"); !added {
		t.Fatalf("expected first ApplyReaction to add, got removed")
	}
	if got := p.Reactions["🔥"]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected user 1 under 🔥, got %v", got)
	}

	if added := p.ApplyReaction(1, "🔥"); added {
		t.Fatalf("expected second ApplyReaction to remove, got added")
	}
	if _, ok := p.Reactions["🔥"]; ok {
		t.Fatalf("expected empty 🔥 kind to be dropped from the map, got %v", p.Reactions)
	}
}

func TestApplyReactionReplacesExistingKind(t *testing.T) {
	p := &Post{}
	p.ApplyReaction(7, "😂")
	p.ApplyReaction(7, "😮")

	if _, ok := p.Reactions["😂"]; ok {
		t.Fatalf("expected 😂 to be vacated when switching kinds, got %v", p.Reactions)
	}
	if got := p.Reactions["😮"]; len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected user 7 under 😮, got %v", got)
	}

	total := 0
	for _, users := range p.Reactions {
		for _, id := range users {
			if id == 7 {
				total++
			}
		}
	}
	if total != 1 {
		t.Fatalf("user holds %d reactions, want exactly 1", total)
	}
}

func TestApplyReactionKeepsOtherUsers(t *testing.T) {
	p := &Post{}
	p.ApplyReaction(1, "😂")
	p.ApplyReaction(2, "😂")
	p.ApplyReaction(1, "😢")

	if got := p.Reactions["😂"]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected user 2 to remain under 😂, got %v", got)
	}
}

func TestLikesAliasTracksLoveKind(t *testing.T) {
	p := &Post{}

	p.ApplyReaction(3, ReactionLove)
	if len(p.Likes) != 1 || p.Likes[0] != 3 {
		t.Fatalf("likes = %v, want [3]", p.Likes)
	}

	p.ApplyReaction(4, "🔥")
	if len(p.Likes) != 1 || p.Likes[0] != 3 {
		t.Fatalf("likes = %v after unrelated reaction, want [3]", p.Likes)
	}

	p.ApplyReaction(3, "🔥")
	if len(p.Likes) != 0 {
		t.Fatalf("likes = %v after user 3 switched kinds, want empty", p.Likes)
	}
}

func TestToggleLoveLeavesOtherKindsAlone(t *testing.T) {
	p := &Post{}
	p.ApplyReaction(5, "😡")

	if liked := p.ToggleLove(5); !liked {
		t.Fatalf("expected ToggleLove to add")
	}
	if got := p.Reactions["😡"]; len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected 😡 untouched by ToggleLove, got %v", p.Reactions)
	}
	if len(p.Likes) != 1 || p.Likes[0] != 5 {
		t.Fatalf("likes = %v, want [5]", p.Likes)
	}

	if liked := p.ToggleLove(5); liked {
		t.Fatalf("expected second ToggleLove to remove")
	}
	if len(p.Likes) != 0 {
		t.Fatalf("likes = %v after unlike, want empty", p.Likes)
	}
}

func TestIsReactionKind(t *testing.T) {
	for _, emoji := range []string{"❤️", "😂", "😮", "😢", "😡", "👍", "🔥"} {
		if !IsReactionKind(emoji) {
			t.Fatalf("expected %q to be a valid reaction kind", emoji)
		}
	}
	if IsReactionKind("🙃") {
		t.Fatalf("expected 🙃 to be rejected")
	}
	if IsReactionKind("") {
		t.Fatalf("expected empty string to be rejected")
	}
}

func TestAddCommentAssignsStableUniqueIDs(t *testing.T) {
	p := &Post{}
	first := p.AddComment(1, "first")
	second := p.AddComment(2, "second")

	if first.ID.IsZero() || second.ID.IsZero() {
		t.Fatalf("expected generated comment ids")
	}
	if p.Comments[0].ID == p.Comments[1].ID {
		t.Fatalf("comment ids collide: %s", p.Comments[0].ID.Hex())
	}
	if p.Comments[0].Text != "first" || p.Comments[1].Text != "second" {
		t.Fatalf("comments out of order: %+v", p.Comments)
	}
}

func TestCommentAtOutOfRange(t *testing.T) {
	p := &Post{}
	p.AddComment(1, "only")

	if c := p.CommentAt(0); c == nil || c.Text != "only" {
		t.Fatalf("CommentAt(0) = %v, want the comment", c)
	}
	if c := p.CommentAt(1); c != nil {
		t.Fatalf("CommentAt(1) = %v, want nil", c)
	}
	if c := p.CommentAt(-1); c != nil {
		t.Fatalf("CommentAt(-1) = %v, want nil", c)
	}
}

func TestCommentToggleLike(t *testing.T) {
	p := &Post{}
	c := p.AddComment(1, "hello")

	if liked := c.ToggleLike(9); !liked {
		t.Fatalf("expected like to be added")
	}
	if liked := c.ToggleLike(9); liked {
		t.Fatalf("expected like to be removed")
	}
	if len(p.Comments[0].Likes) != 0 {
		t.Fatalf("likes = %v after round trip, want empty", p.Comments[0].Likes)
	}
}

func TestReplyLifecycle(t *testing.T) {
	p := &Post{}
	c := p.AddComment(1, "parent")
	r1 := c.AddReply(2, "one")
	c.AddReply(3, "two")
	r1ID := r1.ID

	if found := p.Comments[0].FindReply(r1ID); found == nil || found.Text != "one" {
		t.Fatalf("FindReply(%s) = %v, want reply one", r1ID.Hex(), found)
	}

	if removed := p.Comments[0].RemoveReply(r1ID); !removed {
		t.Fatalf("expected RemoveReply to remove")
	}
	if len(p.Comments[0].Replies) != 1 || p.Comments[0].Replies[0].Text != "two" {
		t.Fatalf("replies = %+v after removal, want only two", p.Comments[0].Replies)
	}

	if removed := p.Comments[0].RemoveReply(r1ID); removed {
		t.Fatalf("expected second RemoveReply to be a no-op")
	}
	if found := p.Comments[0].FindReply(primitive.NewObjectID()); found != nil {
		t.Fatalf("FindReply(random) = %v, want nil", found)
	}
}

func TestReplyToggleLike(t *testing.T) {
	p := &Post{}
	c := p.AddComment(1, "parent")
	r := c.AddReply(2, "child")

	if liked := r.ToggleLike(4); !liked {
		t.Fatalf("expected reply like to be added")
	}
	if got := p.Comments[0].Replies[0].Likes; len(got) != 1 || got[0] != 4 {
		t.Fatalf("reply likes = %v, want [4]", got)
	}
	if liked := r.ToggleLike(4); liked {
		t.Fatalf("expected reply like to be removed")
	}
}
