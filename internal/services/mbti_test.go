package services

import (
	"strings"
	"testing"
)

// fullMBTIAnswers picks one analytic id per question from the given
// per-question list, defaulting to the first letter of each dichotomy.
func fullMBTIAnswers(overrides map[int]int) []MBTIAnswer {
	defaults := map[int]int{
		1: 1, 2: 1, 3: 1, // E
		4: 3, 5: 3, 6: 3, // S
		7: 5, 8: 5, 9: 5, // T
		10: 7, 11: 7, 12: 7, // J
	}
	answers := make([]MBTIAnswer, 0, MBTIQuestionCount)
	for q := 1; q <= MBTIQuestionCount; q++ {
		analytic := defaults[q]
		if v, ok := overrides[q]; ok {
			analytic = v
		}
		answers = append(answers, MBTIAnswer{QuestionID: q, OptionID: q*2 - 1, AnalyticID: analytic})
	}
	return answers
}

func TestScoreMBTIAllFirstLetters(t *testing.T) {
	score, err := ScoreMBTI(fullMBTIAnswers(nil))
	if err != nil {
		t.Fatalf("ScoreMBTI returned error: %v", err)
	}
	if score.PersonalityType != "ESTJ" {
		t.Fatalf("personality type = %q, want ESTJ", score.PersonalityType)
	}
	for _, dim := range []string{"EI", "SN", "TF", "JP"} {
		pcts := score.Dimensions[dim]
		if pcts == nil {
			t.Fatalf("missing dimension %s", dim)
		}
		sum := 0
		for _, v := range pcts {
			sum += v
		}
		if sum != 100 {
			t.Fatalf("dimension %s percentages sum to %d, want 100", dim, sum)
		}
	}
}

func TestScoreMBTIMajorityWithSplit(t *testing.T) {
	// Dichotomy EI gets two E answers and one I answer.
	score, err := ScoreMBTI(fullMBTIAnswers(map[int]int{3: 2}))
	if err != nil {
		t.Fatalf("ScoreMBTI returned error: %v", err)
	}
	if score.PersonalityType != "ESTJ" {
		t.Fatalf("personality type = %q, want ESTJ", score.PersonalityType)
	}
	if got := score.Dimensions["EI"]["E"]; got != 67 {
		t.Fatalf("E percentage = %d, want 67", got)
	}
	if got := score.Dimensions["EI"]["I"]; got != 33 {
		t.Fatalf("I percentage = %d, want 33", got)
	}
}

func TestScoreMBTIMinorityLetterDominates(t *testing.T) {
	// All three SN answers pick N.
	score, err := ScoreMBTI(fullMBTIAnswers(map[int]int{4: 4, 5: 4, 6: 4}))
	if err != nil {
		t.Fatalf("ScoreMBTI returned error: %v", err)
	}
	if score.PersonalityType != "ENTJ" {
		t.Fatalf("personality type = %q, want ENTJ", score.PersonalityType)
	}
	if got := score.Dimensions["SN"]["N"]; got != 100 {
		t.Fatalf("N percentage = %d, want 100", got)
	}
	if got := score.Dimensions["SN"]["S"]; got != 0 {
		t.Fatalf("S percentage = %d, want 0", got)
	}
}

func TestScoreMBTICodeLettersAreLegal(t *testing.T) {
	score, err := ScoreMBTI(fullMBTIAnswers(map[int]int{2: 2, 5: 4, 8: 6, 11: 8}))
	if err != nil {
		t.Fatalf("ScoreMBTI returned error: %v", err)
	}
	if len(score.PersonalityType) != 4 {
		t.Fatalf("type code length = %d, want 4", len(score.PersonalityType))
	}
	legal := []string{"EI", "SN", "TF", "JP"}
	for i, pair := range legal {
		if !strings.ContainsRune(pair, rune(score.PersonalityType[i])) {
			t.Fatalf("position %d letter %c not in pair %s", i, score.PersonalityType[i], pair)
		}
	}
}

func TestScoreMBTIRejectsWrongCount(t *testing.T) {
	_, err := ScoreMBTI(fullMBTIAnswers(nil)[:11])
	if !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid error for 11 answers, got %v", err)
	}
}

func TestScoreMBTIRejectsUnknownQuestion(t *testing.T) {
	answers := fullMBTIAnswers(nil)
	answers[0].QuestionID = 99
	_, err := ScoreMBTI(answers)
	if !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid error for unknown question, got %v", err)
	}
}

func TestScoreMBTIRejectsUnknownAnalyticID(t *testing.T) {
	answers := fullMBTIAnswers(nil)
	answers[0].AnalyticID = 42
	_, err := ScoreMBTI(answers)
	if !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid error for unknown analytic id, got %v", err)
	}
}

func TestScoreMBTIRejectsForeignLetter(t *testing.T) {
	// Question 1 belongs to EI; analytic 5 (T) is not legal there.
	answers := fullMBTIAnswers(map[int]int{1: 5})
	_, err := ScoreMBTI(answers)
	if !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid error for foreign letter, got %v", err)
	}
}
