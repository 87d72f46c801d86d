package extract

import (
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

type categoryRule struct {
	category model.Category
	keywords []string
}

// categoryRules are checked in order; the first rule with a matching keyword wins
var categoryRules = []categoryRule{
	{model.CategoryFees, []string{"fee", "payment", "cost", "tuition", "money", "pay", "charge"}},
	{model.CategoryScholarship, []string{"scholarship", "financial aid", "grant", "funding", "छात्रवृत्ति"}},
	{model.CategoryLibrary, []string{"library", "book", "study", "research", "journal", "reading"}},
	{model.CategoryHostel, []string{"hostel", "accommodation", "mess", "room", "boarding", "residential"}},
	{model.CategoryAdmission, []string{"admission", "application", "eligibility", "entrance", "enroll"}},
	{model.CategoryAcademic, []string{"exam", "grade", "semester", "course", "syllabus", "class"}},
	{model.CategoryPlacement, []string{"placement", "job", "career", "internship", "company", "recruitment"}},
}

// Categorize assigns text to the first category whose keywords it contains
func Categorize(text string) model.Category {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryGeneral
}
