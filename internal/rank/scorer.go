package rank

import "jobscout/internal/domain"

type Scorer interface {
	Score(p domain.Posting) domain.ScoreBreakdown
}
