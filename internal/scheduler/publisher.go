package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/rasel97/snapthread/backend/internal/repositories"
)

// Publisher periodically publishes due scheduled posts and sweeps expired
// stories. Run it in its own goroutine; it stops when the context is done.
type Publisher struct {
	postRepository  repositories.PostRepository
	storyRepository repositories.StoryRepository
	interval        time.Duration
}

// NewPublisher creates a Publisher polling at the given interval
func NewPublisher(postRepo repositories.PostRepository, storyRepo repositories.StoryRepository, interval time.Duration) *Publisher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Publisher{
		postRepository:  postRepo,
		storyRepository: storyRepo,
		interval:        interval,
	}
}

// Run polls until ctx is cancelled
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("Scheduler started, polling every %s", p.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped.")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Publisher) tick(ctx context.Context) {
	now := time.Now()

	posts, err := p.postRepository.GetDueScheduledPosts(ctx, now)
	if err != nil {
		log.Printf("Failed to query due scheduled posts: %v", err)
	} else {
		for _, post := range posts {
			if err := p.postRepository.MarkPublished(ctx, post.ID, now); err != nil {
				log.Printf("Failed to publish scheduled post %s: %v", post.ID.Hex(), err)
				continue
			}
			log.Printf("Published scheduled post %s", post.ID.Hex())
		}
	}

	deleted, err := p.storyRepository.DeleteExpiredStories(ctx)
	if err != nil {
		log.Printf("Failed to sweep expired stories: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Removed %d expired stories", deleted)
	}
}
