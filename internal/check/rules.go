package check

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed data/misspellings.txt data/cliches.txt data/buzzwords.txt
var ruleData embed.FS

var (
	wordRe    = regexp.MustCompile(`[A-Za-z']+`)
	passiveRe = regexp.MustCompile(`(?i)\b(am|is|are|was|were|be|been|being)\s+\w+(?:ed|en)\b`)
	pronounRe = regexp.MustCompile(`(?i)\b(i|me|my|mine|myself)\b`)
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe   = regexp.MustCompile(`(\+?\d{1,3}[\s.\-]?)?(\(?\d{3}\)?[\s.\-]?)\d{3}[\s.\-]?\d{4}`)
)

// rules holds the loaded dictionary data and compiled phrase patterns.
type rules struct {
	misspellings map[string]string // wrong -> suggestion, lowercase keys
	cliches      []phrase
	buzzwords    []phrase
}

// phrase is one fixed lookup compiled to a word-boundary regex.
type phrase struct {
	text string
	re   *regexp.Regexp
}

func compilePhrase(p string) (phrase, error) {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`)
	if err != nil {
		return phrase{}, fmt.Errorf("compile phrase %q: %w", p, err)
	}
	return phrase{text: p, re: re}, nil
}

// loadRules parses the embedded data files. misspellings.txt carries
// "wrong->right" pairs; the phrase files carry one phrase per line.
// Blank lines and #-comments are skipped everywhere.
func loadRules() (rules, error) {
	r := rules{misspellings: make(map[string]string)}

	if err := eachLine("data/misspellings.txt", func(line string) error {
		wrong, right, ok := strings.Cut(line, "->")
		if !ok {
			return fmt.Errorf("malformed misspelling entry %q", line)
		}
		r.misspellings[strings.ToLower(strings.TrimSpace(wrong))] = strings.TrimSpace(right)
		return nil
	}); err != nil {
		return rules{}, err
	}

	if err := eachLine("data/cliches.txt", func(line string) error {
		p, err := compilePhrase(line)
		if err != nil {
			return err
		}
		r.cliches = append(r.cliches, p)
		return nil
	}); err != nil {
		return rules{}, err
	}

	if err := eachLine("data/buzzwords.txt", func(line string) error {
		p, err := compilePhrase(line)
		if err != nil {
			return err
		}
		r.buzzwords = append(r.buzzwords, p)
		return nil
	}); err != nil {
		return rules{}, err
	}

	return r, nil
}

func eachLine(name string, fn func(string) error) error {
	data, err := ruleData.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// spellPass flags every word found in the misspelling dictionary.
func (r rules) spellPass(text string) []Finding {
	var out []Finding
	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		if right, ok := r.misspellings[strings.ToLower(word)]; ok {
			out = append(out, Finding{
				Category:   CategorySpelling,
				Match:      word,
				Offset:     loc[0],
				Suggestion: right,
			})
		}
	}
	return out
}

// phrasePass flags every occurrence of a fixed phrase list.
func (r rules) phrasePass(text string, phrases []phrase, cat Category) []Finding {
	var out []Finding
	for _, p := range phrases {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, Finding{
				Category:   cat,
				Match:      text[loc[0]:loc[1]],
				Offset:     loc[0],
				Suggestion: "rephrase with a concrete accomplishment",
			})
		}
	}
	return out
}

// passivePass flags "to be" + past participle constructions.
func (r rules) passivePass(text string) []Finding {
	var out []Finding
	for _, loc := range passiveRe.FindAllStringIndex(text, -1) {
		out = append(out, Finding{
			Category:   CategoryPassive,
			Match:      text[loc[0]:loc[1]],
			Offset:     loc[0],
			Suggestion: "use an active verb",
		})
	}
	return out
}

// pronounPass flags first-person pronouns, which resumes conventionally omit.
func (r rules) pronounPass(text string) []Finding {
	var out []Finding
	for _, loc := range pronounRe.FindAllStringIndex(text, -1) {
		out = append(out, Finding{
			Category:   CategoryPronoun,
			Match:      text[loc[0]:loc[1]],
			Offset:     loc[0],
			Suggestion: "drop the pronoun and lead with the verb",
		})
	}
	return out
}

// contactPass flags missing contact details as document-level findings.
func (r rules) contactPass(text string) []Finding {
	var out []Finding
	if !emailRe.MatchString(text) {
		out = append(out, Finding{
			Category:   CategoryContact,
			Match:      "no email address found",
			Offset:     -1,
			Suggestion: "add a contact email near the top",
		})
	}
	if !phoneRe.MatchString(text) {
		out = append(out, Finding{
			Category:   CategoryContact,
			Match:      "no phone number found",
			Offset:     -1,
			Suggestion: "add a phone number near the top",
		})
	}
	return out
}
