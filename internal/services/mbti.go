package services

import (
	"fmt"
	"math"
)

// MBTIQuestionCount is the fixed size of the type inventory.
const MBTIQuestionCount = 12

// mbtiDichotomy is one opposing-trait axis. Letters holds the two legal
// letters in fixed order; Questions lists the three items scoring it.
type mbtiDichotomy struct {
	Code      string
	Letters   [2]string
	Questions [3]int
}

// mbtiDichotomies is fixed configuration, not data-derived. Order defines
// the position of each letter in the four-character type code.
var mbtiDichotomies = [4]mbtiDichotomy{
	{Code: "EI", Letters: [2]string{"E", "I"}, Questions: [3]int{1, 2, 3}},
	{Code: "SN", Letters: [2]string{"S", "N"}, Questions: [3]int{4, 5, 6}},
	{Code: "TF", Letters: [2]string{"T", "F"}, Questions: [3]int{7, 8, 9}},
	{Code: "JP", Letters: [2]string{"J", "P"}, Questions: [3]int{10, 11, 12}},
}

// mbtiLetters maps analytic ids to dimension letters.
var mbtiLetters = map[int]string{
	1: "E", 2: "I",
	3: "S", 4: "N",
	5: "T", 6: "F",
	7: "J", 8: "P",
}

// MBTIScore is the computed outcome of a valid 12-answer set.
type MBTIScore struct {
	PersonalityType string
	Dimensions      map[string]map[string]int
}

func dichotomyForQuestion(questionID int) *mbtiDichotomy {
	for i := range mbtiDichotomies {
		for _, q := range mbtiDichotomies[i].Questions {
			if q == questionID {
				return &mbtiDichotomies[i]
			}
		}
	}
	return nil
}

// ScoreMBTI aggregates exactly 12 answers into a four-letter type code and
// per-dichotomy percentage splits. Pure function; rejects malformed input
// before scoring rather than skipping answers.
//
// Dominant letter per dichotomy is the more frequent one; on an exact tie
// the first letter of the pair wins (E, S, T, J). The rule cannot fire for
// a valid 12-answer set (three answers per group), but it is fixed so the
// outcome never depends on iteration order.
func ScoreMBTI(answers []MBTIAnswer) (*MBTIScore, error) {
	if len(answers) != MBTIQuestionCount {
		return nil, NewInvalidError(fmt.Sprintf("all %d questions must be answered", MBTIQuestionCount))
	}

	// counts[dichotomy code][letter]
	counts := make(map[string]map[string]int, len(mbtiDichotomies))
	for _, d := range mbtiDichotomies {
		counts[d.Code] = map[string]int{d.Letters[0]: 0, d.Letters[1]: 0}
	}

	for _, a := range answers {
		d := dichotomyForQuestion(a.QuestionID)
		if d == nil {
			return nil, NewInvalidError(fmt.Sprintf("unknown question id %d", a.QuestionID))
		}
		letter, ok := mbtiLetters[a.AnalyticID]
		if !ok {
			return nil, NewInvalidError(fmt.Sprintf("unknown analytic id %d", a.AnalyticID))
		}
		if letter != d.Letters[0] && letter != d.Letters[1] {
			return nil, NewInvalidError(fmt.Sprintf("analytic id %d is not valid for question %d", a.AnalyticID, a.QuestionID))
		}
		counts[d.Code][letter]++
	}

	typeCode := ""
	dims := make(map[string]map[string]int, len(mbtiDichotomies))
	for _, d := range mbtiDichotomies {
		first, second := d.Letters[0], d.Letters[1]
		c1, c2 := counts[d.Code][first], counts[d.Code][second]
		dominant := first
		if c2 > c1 {
			dominant = second
		}
		typeCode += dominant
		dims[d.Code] = map[string]int{
			first:  percentage(c1, c1+c2),
			second: percentage(c2, c1+c2),
		}
	}

	return &MBTIScore{PersonalityType: typeCode, Dimensions: dims}, nil
}

// percentage rounds count/total to a whole percent, 0 when total is 0.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
