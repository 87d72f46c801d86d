package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

const (
	courseExpr   = `B\.? ?COM\.?|B\.? ?SC\.?|B\.? ?A\.?|M\.? ?COM\.?|M\.? ?SC\.?|M\.? ?A\.?|BCA|BBA|MBA|H\.? ?S\.?`
	feeTypeExpr  = `(?:tuition|admission|total|annual|semester|examination|exam|hostel|library|development|registration)[ \t]+(?:fees?|charges?)`
	currencyExpr = `(?:(?:rs\.?|inr|₹)[ \t]*)?`
	amountExpr   = `\d{1,3}(?:,\d{2,3})+(?:\.\d+)?|\d+(?:\.\d+)?`
	sepExpr      = `[ \t]*[:\-–=]?[ \t]*`
)

var (
	// B.A. 720.00 / BCA: Rs. 12,500 / BA Honours: Rs 12,500
	courseAmountRe = regexp.MustCompile(`(?i)\b(` + courseExpr + `)((?:[ \t]+[^\d\n]{0,40}?)?` + sepExpr + currencyExpr + `)(` + amountExpr + `)`)

	// a gap with words in it must end in a separator or currency marker
	amountCueRe = regexp.MustCompile(`(?i)(?:[:\-–=₹]|\brs\.?|\binr)$`)

	// Tuition fee for B.A. 5000
	feeTypeCourseRe = regexp.MustCompile(`(?i)(` + feeTypeExpr + `)[ \t]*(?:for|of|[:\-–(])?[ \t]*\b(` + courseExpr + `)\)?` + sepExpr + currencyExpr + `(` + amountExpr + `)`)

	// B.Com (Admission Fee): 1500
	courseFeeTypeRe = regexp.MustCompile(`(?i)\b(` + courseExpr + `)[ \t]*(?:[:\-–(][ \t]*)?(` + feeTypeExpr + `)\)?` + sepExpr + currencyExpr + `(` + amountExpr + `)`)

	// Total fee: Rs. 7000
	feeTypeAmountRe = regexp.MustCompile(`(?i)(` + feeTypeExpr + `)([^\d\n]{0,40}?)(` + amountExpr + `)`)

	courseTokenRe = regexp.MustCompile(`(?i)\b(?:` + courseExpr + `)(?:[^a-z]|$)`)
	bareFeeRowRe  = regexp.MustCompile(`(?im)^[ \t]*(?:` + courseExpr + `)` + sepExpr + currencyExpr + `(?:` + amountExpr + `)[ \t\r]*$`)
)

var feeTriggers = []string{"fee", "tuition", "cost", "payment", "price"}

// feeGapWords let prose between a course and an amount through
var feeGapWords = []string{"fee", "tuition", "charge"}

// courseNames maps a normalized course key to its display form
var courseNames = map[string]string{
	"ba":   "B.A",
	"bsc":  "B.Sc",
	"bcom": "B.Com",
	"ma":   "M.A",
	"msc":  "M.Sc",
	"mcom": "M.Com",
	"bca":  "BCA",
	"bba":  "BBA",
	"mba":  "MBA",
	"hs":   "H.S",
}

// FeeStrategy turns course fee listings into one fact per course.
// When a course is listed more than once, the most specific fee kind wins:
// total/annual over tuition over anything else.
type FeeStrategy struct{}

// NewFeeStrategy creates a fee strategy
func NewFeeStrategy() *FeeStrategy {
	return &FeeStrategy{}
}

// Name returns the strategy name
func (s *FeeStrategy) Name() string {
	return "fee"
}

type feeEntry struct {
	fact     model.Fact
	priority int
}

type feeSet struct {
	entries map[string]*feeEntry
	order   []string
}

// add keeps the first fact per key unless a strictly higher priority arrives
func (f *feeSet) add(key string, priority int, fact model.Fact) {
	if existing, ok := f.entries[key]; ok {
		if priority > existing.priority {
			existing.fact = fact
			existing.priority = priority
		}
		return
	}
	f.entries[key] = &feeEntry{fact: fact, priority: priority}
	f.order = append(f.order, key)
}

// Extract returns fee facts, one per course or fee kind
func (s *FeeStrategy) Extract(text string) []model.Fact {
	if !feeTriggered(text) {
		return nil
	}

	set := &feeSet{entries: make(map[string]*feeEntry)}

	for _, m := range courseAmountRe.FindAllStringSubmatch(text, -1) {
		if amountGapOK(m[2]) {
			addCourseFee(set, m[1], "", m[3])
		}
	}
	for _, m := range feeTypeCourseRe.FindAllStringSubmatch(text, -1) {
		addCourseFee(set, m[2], m[1], m[3])
	}
	for _, m := range courseFeeTypeRe.FindAllStringSubmatch(text, -1) {
		addCourseFee(set, m[1], m[2], m[3])
	}
	for _, loc := range feeTypeAmountRe.FindAllStringSubmatchIndex(text, -1) {
		// Course-specific lines are covered by the patterns above
		if courseTokenRe.MatchString(lineAround(text, loc[0], loc[1])) {
			continue
		}
		addGeneralFee(set, text[loc[2]:loc[3]], text[loc[6]:loc[7]])
	}

	facts := make([]model.Fact, 0, len(set.order))
	for _, key := range set.order {
		facts = append(facts, set.entries[key].fact)
	}
	return facts
}

func addCourseFee(set *feeSet, rawCourse, phrase, amount string) {
	key := normalizeKey(rawCourse)
	if len(key) < 2 || len(amount) < 2 {
		return
	}
	course, ok := courseNames[key]
	if !ok {
		course = collapseWhitespace(rawCourse)
	}
	phrase = strings.ToLower(collapseWhitespace(phrase))

	answer := fmt.Sprintf("The fee for %s is Rs. %s.", course, amount)
	if phrase != "" {
		answer = fmt.Sprintf("The %s for %s is Rs. %s.", phrase, course, amount)
	}

	set.add(key+"_fee", feePriority(phrase), model.Fact{
		Question: fmt.Sprintf("What is the fee for %s?", course),
		Answer:   answer,
		Category: model.CategoryFees,
		Language: model.LanguageEnglish,
	})
}

func addGeneralFee(set *feeSet, phrase, amount string) {
	phrase = strings.ToLower(collapseWhitespace(phrase))
	key := normalizeKey(phrase)
	if len(key) < 2 || len(amount) < 2 {
		return
	}
	set.add(key+"_fee", feePriority(phrase), model.Fact{
		Question: fmt.Sprintf("What is the %s?", phrase),
		Answer:   fmt.Sprintf("The %s is Rs. %s.", phrase, amount),
		Category: model.CategoryFees,
		Language: model.LanguageEnglish,
	})
}

// amountGapOK rejects "B.A. admission form available from 15 June": text
// between a course and a number only counts when it names a fee or ends in a
// separator or currency marker
func amountGapOK(gap string) bool {
	g := strings.ToLower(strings.TrimSpace(gap))
	if g == "" || amountCueRe.MatchString(g) {
		return true
	}
	return containsAny(g, feeGapWords)
}

// feePriority ranks fee kinds: 3 total/annual, 2 tuition, 1 otherwise
func feePriority(phrase string) int {
	lower := strings.ToLower(phrase)
	switch {
	case strings.Contains(lower, "total"), strings.Contains(lower, "annual"):
		return 3
	case strings.Contains(lower, "tuition"):
		return 2
	default:
		return 1
	}
}

// feeTriggered reports whether text looks like it lists fees at all.
// A bare "<course> <amount>" row counts even without a trigger word.
func feeTriggered(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range feeTriggers {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return bareFeeRowRe.MatchString(text)
}

// normalizeKey lowercases s and drops everything but letters and digits
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lineAround returns the full line(s) containing text[start:end]
func lineAround(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd < 0 {
		return text[lineStart:]
	}
	return text[lineStart : end+lineEnd]
}
