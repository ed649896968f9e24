// Package scoring classifies the market regime and turns an IndicatorSet into
// a BUY/SELL/HOLD decision with confidence.
//
// Rules run once, in a fixed order, against a single ScoreState. Each rule may
// add weight to one side, count as evidence for that side, and append a reason.
package scoring

import "fmt"

// ScoreState accumulates weighted evidence for one evaluation.
type ScoreState struct {
	BuyScore     float64
	SellScore    float64
	BuyEvidence  int
	SellEvidence int
	Reasons      []string
}

func (s *ScoreState) buy(weight float64, format string, args ...any) {
	s.BuyScore += weight
	s.BuyEvidence++
	s.note(format, args...)
}

func (s *ScoreState) sell(weight float64, format string, args ...any) {
	s.SellScore += weight
	s.SellEvidence++
	s.note(format, args...)
}

// nudgeBuy and nudgeSell add weight without counting evidence.
func (s *ScoreState) nudgeBuy(weight float64, format string, args ...any) {
	s.BuyScore += weight
	s.note(format, args...)
}

func (s *ScoreState) nudgeSell(weight float64, format string, args ...any) {
	s.SellScore += weight
	s.note(format, args...)
}

func (s *ScoreState) scale(factor float64) {
	s.BuyScore *= factor
	s.SellScore *= factor
}

func (s *ScoreState) note(format string, args ...any) {
	s.Reasons = append(s.Reasons, fmt.Sprintf(format, args...))
}

// leader returns +1 when buy leads, -1 when sell leads and 0 on a tie.
func (s *ScoreState) leader() int {
	switch {
	case s.BuyScore > s.SellScore:
		return 1
	case s.SellScore > s.BuyScore:
		return -1
	}
	return 0
}
