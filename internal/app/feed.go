package app

import (
	"sync"

	"news-credibility-service/internal/domain"
)

// ArticleFeed fans out article credibility updates to subscribers.
type ArticleFeed struct {
	mu          sync.Mutex
	subscribers map[int64]map[chan domain.ArticleUpdate]struct{}
}

func NewArticleFeed() *ArticleFeed {
	return &ArticleFeed{subscribers: make(map[int64]map[chan domain.ArticleUpdate]struct{})}
}

// Subscribe returns a channel receiving updates for one article.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ArticleFeed) Subscribe(articleID int64) (<-chan domain.ArticleUpdate, func()) {
	ch := make(chan domain.ArticleUpdate, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[articleID]
	if !ok {
		subs = make(map[chan domain.ArticleUpdate]struct{})
		f.subscribers[articleID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[articleID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(f.subscribers, articleID)
		}
	}
	return ch, cancel
}

// Publish delivers update to every subscriber of the article without blocking.
// A subscriber whose buffer is full loses its oldest pending update.
func (f *ArticleFeed) Publish(update domain.ArticleUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[update.ArticleID] {
		select {
		case ch <- update:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}

// Subscribers reports how many listeners an article has.
func (f *ArticleFeed) Subscribers(articleID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[articleID])
}
