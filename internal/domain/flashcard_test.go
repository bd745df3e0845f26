package domain

import "testing"

func TestUserProgress_SuccessRate(t *testing.T) {
	tests := []struct {
		name           string
		correct, total int
		want           string
		wantPercent    string
	}{
		{"No attempts", 0, 0, "0", "0"},
		{"All correct", 3, 3, "1", "100"},
		{"Two thirds", 2, 3, "0.67", "66.7"},
		{"One quarter", 1, 4, "0.25", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &UserProgress{CorrectAttempts: tt.correct, TotalAttempts: tt.total}
			if got := p.SuccessRate().String(); got != tt.want {
				t.Errorf("SuccessRate() = %s, want %s", got, tt.want)
			}
			if got := p.SuccessPercent().String(); got != tt.wantPercent {
				t.Errorf("SuccessPercent() = %s, want %s", got, tt.wantPercent)
			}
		})
	}
}

func TestQuestion_Answers(t *testing.T) {
	q := &Question{Answer: "Paris", Answer2: "Lyon", Answer4: "Nice"}
	got := q.Answers()
	if len(got) != 3 || got[0] != "Paris" {
		t.Errorf("Answers() = %v", got)
	}
}

func TestQuestionType_IsValid(t *testing.T) {
	for _, qt := range []QuestionType{QuestionMultipleChoice, QuestionFreeText, QuestionTrueFalse, QuestionNumeric} {
		if !qt.IsValid() {
			t.Errorf("%q should be valid", qt)
		}
	}
	if QuestionType("ESSAY").IsValid() {
		t.Error("ESSAY should not be valid")
	}
	if !DifficultyEasy.IsValid() || Difficulty("EXTREME").IsValid() {
		t.Error("difficulty validation mismatch")
	}
}
