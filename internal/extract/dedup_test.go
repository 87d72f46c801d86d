package extract

import (
	"math"
	"testing"

	"github.com/ppiankov/campusfaq/internal/model"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "fee for bca course", "fee for bca course", 1},
		{"case insensitive", "Fee For BCA", "fee for bca", 1},
		{"four of five", "fee for bca course", "fee for bca course details", 0.8},
		{"disjoint", "library timings", "hostel rules", 0},
		{"empty", "", "anything", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDedup_QuestionThreshold(t *testing.T) {
	facts := []model.Fact{
		{Question: "fee for bca course", Answer: "Rs. 15000 for the first year of study."},
		{Question: "fee for bca course details", Answer: "Completely different wording of an answer here."},
	}

	got := Dedup(facts)

	if len(got) != 1 {
		t.Fatalf("expected 1 fact to survive, got %d", len(got))
	}
	if got[0].Question != "fee for bca course" {
		t.Errorf("expected first fact to survive, got %q", got[0].Question)
	}
}

func TestDedup_AnswerThreshold(t *testing.T) {
	facts := []model.Fact{
		{Question: "What is the hostel fee?", Answer: "The hostel fee is Rs. 12000."},
		{Question: "How much does the hostel cost per year?", Answer: "The hostel fee is Rs. 12000."},
	}

	if got := Dedup(facts); len(got) != 1 {
		t.Errorf("expected answer duplicate to be dropped, got %d facts", len(got))
	}
}

func TestDedup_KeepsDistinctCourses(t *testing.T) {
	facts := []model.Fact{
		{Question: "What is the fee for B.A?", Answer: "The fee for B.A is Rs. 720.00."},
		{Question: "What is the fee for B.Sc?", Answer: "The fee for B.Sc is Rs. 840.00."},
		{Question: "What is the fee for B.Com?", Answer: "The fee for B.Com is Rs. 3000.00."},
	}

	if got := Dedup(facts); len(got) != 3 {
		t.Errorf("expected 3 distinct facts, got %d", len(got))
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want model.Category
	}{
		{"What is the tuition fee?", model.CategoryFees},
		{"Is there any scholarship for girls?", model.CategoryScholarship},
		{"छात्रवृत्ति के लिए आवेदन", model.CategoryScholarship},
		{"Library timings", model.CategoryLibrary},
		{"Hostel accommodation rules", model.CategoryHostel},
		{"Eligibility for entrance", model.CategoryAdmission},
		{"When is the semester exam?", model.CategoryAcademic},
		{"Which company visits for placement?", model.CategoryPlacement},
		{"Where is the main gate?", model.CategoryGeneral},
		// fees is checked before admission
		{"Admission fee details", model.CategoryFees},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Categorize(tt.text); got != tt.want {
				t.Errorf("Categorize(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestCategorize_Idempotent(t *testing.T) {
	for _, text := range []string{"Hostel mess charges", "Exam schedule", "Random words"} {
		first := Categorize(text)
		for i := 0; i < 3; i++ {
			if got := Categorize(text); got != first {
				t.Errorf("Categorize(%q) changed from %s to %s", text, first, got)
			}
		}
	}
}
