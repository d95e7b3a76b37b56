package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
)

func TestArticleFeedDropsOldestWhenFull(t *testing.T) {
	feed := app.NewArticleFeed()
	updates, cancel := feed.Subscribe(1)

	for i := 1; i <= 10; i++ {
		feed.Publish(domain.ArticleUpdate{ArticleID: 1, TotalResponses: i})
	}
	feed.Publish(domain.ArticleUpdate{ArticleID: 2, TotalResponses: 99})

	first := <-updates
	assert.Equal(t, 3, first.TotalResponses)
	assert.Equal(t, 1, feed.Subscribers(1))

	cancel()
	cancel()
	assert.Equal(t, 0, feed.Subscribers(1))

	var last domain.ArticleUpdate
	for u := range updates {
		last = u
	}
	assert.Equal(t, 10, last.TotalResponses)
}
