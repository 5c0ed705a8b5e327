// Package check scores resume text with a fixed set of rule passes:
// dictionary lookups for common misspellings, phrase and regex matches
// for cliches, buzzwords and passive voice, and presence checks for
// contact details. Scoring is a plain deduction formula, so identical
// input always produces the identical report.
package check

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"toolshed/internal/config"
)

// Category labels one rule pass.
type Category string

const (
	CategorySpelling Category = "spelling"
	CategoryCliche   Category = "cliche"
	CategoryBuzzword Category = "buzzword"
	CategoryPassive  Category = "passive-voice"
	CategoryPronoun  Category = "pronoun"
	CategoryContact  Category = "contact"
	CategoryLength   Category = "length"
)

// Finding is one flagged span of the input.
type Finding struct {
	Category   Category `json:"category"`
	Match      string   `json:"match"`
	Offset     int      `json:"offset"` // byte offset into the input, -1 for document-level findings
	Suggestion string   `json:"suggestion,omitempty"`
}

// Report is the result of checking one document.
type Report struct {
	Score     int        `json:"score"`
	Grade     string     `json:"grade"`
	WordCount int        `json:"word_count"`
	Findings  []Finding  `json:"findings"`
	ByCount   map[Category]int `json:"by_count"`
}

// deduction controls how much each category costs. PerHit is charged per
// finding up to Cap for the whole category.
type deduction struct {
	PerHit int
	Cap    int
}

var deductions = map[Category]deduction{
	CategorySpelling: {PerHit: 2, Cap: 20},
	CategoryCliche:   {PerHit: 3, Cap: 15},
	CategoryBuzzword: {PerHit: 2, Cap: 10},
	CategoryPassive:  {PerHit: 1, Cap: 10},
	CategoryPronoun:  {PerHit: 1, Cap: 5},
	CategoryContact:  {PerHit: 5, Cap: 10},
	CategoryLength:   {PerHit: 5, Cap: 5},
}

// Checker runs the rule passes. Safe for concurrent use once built.
type Checker struct {
	cfg   config.CheckerConfig
	rules rules
	log   *zap.Logger
}

// New builds a checker from the embedded dictionary data.
func New(cfg config.CheckerConfig, log *zap.Logger) (*Checker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r, err := loadRules()
	if err != nil {
		return nil, err
	}
	return &Checker{cfg: cfg, rules: r, log: log}, nil
}

// Check runs every rule pass over the text and scores the result.
func (c *Checker) Check(text string) *Report {
	var findings []Finding
	findings = append(findings, c.rules.spellPass(text)...)
	findings = append(findings, c.rules.phrasePass(text, c.rules.cliches, CategoryCliche)...)
	findings = append(findings, c.rules.phrasePass(text, c.rules.buzzwords, CategoryBuzzword)...)
	findings = append(findings, c.rules.passivePass(text)...)
	findings = append(findings, c.rules.pronounPass(text)...)
	findings = append(findings, c.rules.contactPass(text)...)

	words := countWords(text)
	if words > 0 {
		if words < c.cfg.MinWords {
			findings = append(findings, Finding{
				Category:   CategoryLength,
				Match:      "document too short",
				Offset:     -1,
				Suggestion: "aim for at least " + strconv.Itoa(c.cfg.MinWords) + " words",
			})
		} else if words > c.cfg.MaxWords {
			findings = append(findings, Finding{
				Category:   CategoryLength,
				Match:      "document too long",
				Offset:     -1,
				Suggestion: "trim to under " + strconv.Itoa(c.cfg.MaxWords) + " words",
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Offset < findings[j].Offset
	})

	rep := &Report{
		WordCount: words,
		Findings:  findings,
		ByCount:   make(map[Category]int),
	}
	for _, f := range findings {
		rep.ByCount[f.Category]++
	}
	rep.Score = score(rep.ByCount)
	rep.Grade = grade(rep.Score)

	c.log.Debug("checked document",
		zap.Int("words", words),
		zap.Int("findings", len(findings)),
		zap.Int("score", rep.Score))
	return rep
}

// score applies per-category deductions with caps and clamps to [0,100].
func score(counts map[Category]int) int {
	s := 100
	for cat, n := range counts {
		d, ok := deductions[cat]
		if !ok || n == 0 {
			continue
		}
		cost := n * d.PerHit
		if cost > d.Cap {
			cost = d.Cap
		}
		s -= cost
	}
	if s < 0 {
		s = 0
	}
	return s
}

func grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

