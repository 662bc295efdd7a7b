package services

import (
	"fmt"
	"sort"
	"strings"
)

// RIASECQuestionCount is the fixed size of the interest inventory.
const RIASECQuestionCount = 30

// RIASECConfig carries the fixed scoring configuration: the six category
// codes in seed order and the maximum attainable score per category
// (items per category x max option score). MaxPerCategory is supplied
// here rather than recomputed from answers.
type RIASECConfig struct {
	Categories     []string
	MaxPerCategory int
}

// DefaultRIASECConfig matches the seeded catalog: five items per category,
// Likert options scoring 0,0,0,1,2.
func DefaultRIASECConfig() RIASECConfig {
	return RIASECConfig{
		Categories:     []string{"R", "I", "A", "S", "E", "C"},
		MaxPerCategory: 10,
	}
}

// RIASECScore is the computed outcome of an interest-inventory answer set.
type RIASECScore struct {
	RankedCode  string
	TopThree    string
	Scores      map[string]int
	Percentages map[string]int
}

// ScoreRIASEC sums answer score values per category and derives the ranked
// code, the top-three code, and per-category percentages. Pure function.
//
// Ranking is stable: equal scores keep the configured category order. The
// top-three walk admits a 4th+ category only when its score ties the
// 3rd-ranked one, but the reported code is always truncated to 3 letters;
// ties are detected, the user-facing length is fixed.
//
// Answer sets may be partial here; the session layer enforces completeness
// before scoring.
func ScoreRIASEC(answers []RIASECAnswer, cfg RIASECConfig) (*RIASECScore, error) {
	if len(cfg.Categories) == 0 || cfg.MaxPerCategory <= 0 {
		return nil, NewInvalidError("riasec scoring config required")
	}

	scores := make(map[string]int, len(cfg.Categories))
	for _, code := range cfg.Categories {
		scores[code] = 0
	}

	for _, a := range answers {
		if a.TypeID < 1 || a.TypeID > len(cfg.Categories) {
			return nil, NewInvalidError(fmt.Sprintf("unknown interest type id %d", a.TypeID))
		}
		scores[cfg.Categories[a.TypeID-1]] += a.ScoreValue
	}

	ranked := append([]string(nil), cfg.Categories...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	top := make([]string, 0, len(ranked))
	lastIncluded := 0
	for _, code := range ranked {
		if len(top) >= 3 && scores[code] != lastIncluded {
			break
		}
		top = append(top, code)
		lastIncluded = scores[code]
	}
	if len(top) > 3 {
		top = top[:3]
	}

	percentages := make(map[string]int, len(scores))
	for code, score := range scores {
		percentages[code] = percentage(score, cfg.MaxPerCategory)
	}

	return &RIASECScore{
		RankedCode:  strings.Join(ranked, ""),
		TopThree:    strings.Join(top, ""),
		Scores:      scores,
		Percentages: percentages,
	}, nil
}
