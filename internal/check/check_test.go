package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshed/internal/config"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	cfg := config.Default().Checker
	cfg.MinWords = 5
	cfg.MaxWords = 50
	c, err := New(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestSpellingFindings(t *testing.T) {
	c := newChecker(t)
	rep := c.Check("Responsible for seperate projects; recieved an award. jane@example.com 555-123-4567")

	var spelling []Finding
	for _, f := range rep.Findings {
		if f.Category == CategorySpelling {
			spelling = append(spelling, f)
		}
	}
	require.Len(t, spelling, 2)
	assert.Equal(t, "seperate", spelling[0].Match)
	assert.Equal(t, "separate", spelling[0].Suggestion)
	assert.Equal(t, "recieved", spelling[1].Match)
	assert.Equal(t, "received", spelling[1].Suggestion)

	// Offsets point at the offending word.
	assert.Equal(t, strings.Index("Responsible for seperate projects; recieved an award. jane@example.com 555-123-4567", "seperate"), spelling[0].Offset)
}

func TestClicheAndBuzzwordFindings(t *testing.T) {
	c := newChecker(t)
	rep := c.Check("A team player and rockstar who can Think Outside The Box. jane@example.com 555-123-4567")

	assert.Equal(t, 2, rep.ByCount[CategoryCliche], "team player + think outside the box")
	assert.Equal(t, 1, rep.ByCount[CategoryBuzzword])
}

func TestPassiveAndPronounFindings(t *testing.T) {
	c := newChecker(t)
	rep := c.Check("I was promoted twice. The system was designed by my team. jane@example.com 555-123-4567")

	assert.GreaterOrEqual(t, rep.ByCount[CategoryPassive], 2)
	// "I" and "my"
	assert.Equal(t, 2, rep.ByCount[CategoryPronoun])
}

func TestContactFindings(t *testing.T) {
	c := newChecker(t)

	rep := c.Check("Delivered projects on time and under budget for six years running today")
	assert.Equal(t, 2, rep.ByCount[CategoryContact], "missing email and phone")

	rep = c.Check("Reach me at jane@example.com or (555) 123-4567 for more details anytime soon")
	assert.Equal(t, 0, rep.ByCount[CategoryContact])
}

func TestLengthBands(t *testing.T) {
	cfg := config.Default().Checker
	cfg.MinWords = 10
	cfg.MaxWords = 20
	c, err := New(cfg, nil)
	require.NoError(t, err)

	short := c.Check("jane@example.com 555-123-4567 too short")
	assert.Equal(t, 1, short.ByCount[CategoryLength])

	long := c.Check("jane@example.com 555-123-4567 " + strings.Repeat("word ", 30))
	assert.Equal(t, 1, long.ByCount[CategoryLength])

	// Empty input produces no length finding.
	empty := c.Check("")
	assert.Equal(t, 0, empty.ByCount[CategoryLength])
}

func TestScoringIsDeterministicAndCapped(t *testing.T) {
	c := newChecker(t)
	text := "I am a team player and rockstar ninja guru wizard. synergy synergy synergy. " +
		strings.Repeat("leverage ", 20) + "jane@example.com 555-123-4567"

	a := c.Check(text)
	b := c.Check(text)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Findings, b.Findings)

	// Buzzword deductions cap at 10 regardless of 20+ hits.
	assert.GreaterOrEqual(t, a.ByCount[CategoryBuzzword], 20)
	perfect := c.Check("Delivered measurable results across four product launches. jane@example.com 555-123-4567")
	assert.Greater(t, perfect.Score, a.Score)
	assert.GreaterOrEqual(t, a.Score, 0)
	assert.LessOrEqual(t, a.Score, 100)
}

func TestGrades(t *testing.T) {
	assert.Equal(t, "A", grade(95))
	assert.Equal(t, "B", grade(80))
	assert.Equal(t, "C", grade(75))
	assert.Equal(t, "D", grade(60))
	assert.Equal(t, "F", grade(59))
}

func TestMarkdownReport(t *testing.T) {
	c := newChecker(t)
	rep := c.Check("A team player with a proven track record. jane@example.com 555-123-4567")

	md := rep.Markdown()
	assert.Contains(t, md, "# Resume check:")
	assert.Contains(t, md, "## Cliches")
	assert.Contains(t, md, "team player")

	clean := c.Check("Shipped four releases ahead of schedule with zero regressions. jane@example.com 555-123-4567")
	if len(clean.Findings) == 0 {
		assert.Contains(t, clean.Markdown(), "No issues found.")
	}
}
