package cli

import (
	"context"
	"testing"

	"news-credibility-service/internal/config"
)

func TestBuildDepsInMemorySeedsSampleQuiz(t *testing.T) {
	ctx := context.Background()
	d, err := buildDeps(ctx, config.Config{})
	if err != nil {
		t.Fatalf("build deps: %v", err)
	}
	defer d.Close()

	quiz, err := d.quizzes.GetQuiz(ctx, 1)
	if err != nil {
		t.Fatalf("get sample quiz: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 sample questions, got %d", len(quiz.Questions))
	}
	article, err := d.store.GetArticle(ctx, quiz.ArticleID)
	if err != nil {
		t.Fatalf("get sample article: %v", err)
	}
	if article.SourceDomain != "news.example.com" {
		t.Fatalf("unexpected source domain %q", article.SourceDomain)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate", "recompute"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Fatalf("expected %q subcommand, got %v (err=%v)", name, sub, err)
		}
	}
}
