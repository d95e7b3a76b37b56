// Package scoring holds the pure quiz-score and credibility computations.
package scoring

import "news-credibility-service/internal/domain"

// credibilityScale maps the 1-5 rating scale onto 0-100.
const credibilityScale = 20.0

const (
	minScale = 1
	maxScale = 5
)

// Answer is a submitted (question, option) pair.
type Answer struct {
	QuestionID int64
	Selected   domain.OptionIndex
}

// Graded is an answer whose question resolved.
type Graded struct {
	Answer
	// Index is the position of the answer in the submitted sequence.
	Index   int
	Correct bool
}

// Result is the outcome of scoring a set of answers.
type Result struct {
	Correct    int
	Total      int
	Percentage float64
	Graded     []Graded
	// Skipped lists question IDs that did not resolve; they are not part of Total.
	Skipped []int64
}

// Score grades answers against the correct option of each question. Answers whose
// question is absent from correctByQuestion are skipped and shrink the denominator.
func Score(answers []Answer, correctByQuestion map[int64]domain.OptionIndex) Result {
	res := Result{Graded: make([]Graded, 0, len(answers))}
	for i, a := range answers {
		correct, ok := correctByQuestion[a.QuestionID]
		if !ok {
			res.Skipped = append(res.Skipped, a.QuestionID)
			continue
		}
		g := Graded{Answer: a, Index: i, Correct: a.Selected == correct}
		if g.Correct {
			res.Correct++
		}
		res.Graded = append(res.Graded, g)
	}
	res.Total = len(res.Graded)
	res.Percentage = Percentage(res.Correct, res.Total)
	return res
}

// Percentage returns correct/total*100, or 0 when total is 0.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Rating is one credibility rating weighted by the rater's confidence.
type Rating struct {
	Value  int
	Weight int
}

// Credibility computes sum(value*weight)/sum(weight)*20. Values are clamped to
// 1..5 and weights above 5 are capped, so the result never leaves [20, 100].
// Non-positive weights contribute nothing. ok is false when the weight sum is
// zero, in which case the caller keeps its previous score.
func Credibility(ratings []Rating) (score float64, ok bool) {
	var weighted, total int
	for _, r := range ratings {
		w := r.Weight
		if w <= 0 {
			continue
		}
		if w > maxScale {
			w = maxScale
		}
		weighted += clamp(r.Value) * w
		total += w
	}
	if total == 0 {
		return 0, false
	}
	return float64(weighted) / float64(total) * credibilityScale, true
}

func clamp(v int) int {
	if v < minScale {
		return minScale
	}
	if v > maxScale {
		return maxScale
	}
	return v
}
