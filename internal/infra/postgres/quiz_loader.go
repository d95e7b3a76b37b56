package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"news-credibility-service/internal/domain"
)

// QuizLoader loads a quiz and its questions from Postgres.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := l.pool.QueryRow(ctx,
		`SELECT id, article_id, title, focus_on_misinformation, created_at FROM quizzes WHERE id=$1`, quizID).
		Scan(&quiz.ID, &quiz.ArticleID, &quiz.Title, &quiz.FocusOnMisinformation, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := l.pool.Query(ctx,
		`SELECT id, question_number, question_text, option_1, option_2, option_3, option_4, correct_option
		 FROM questions WHERE quiz_id=$1 ORDER BY question_number`, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		q := domain.Question{QuizID: quiz.ID}
		var correct int16
		if err := rows.Scan(&q.ID, &q.Number, &q.Text, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &correct); err != nil {
			return domain.Quiz{}, fmt.Errorf("scan question: %w", err)
		}
		q.CorrectOption = domain.OptionIndex(correct)
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	return quiz, nil
}
