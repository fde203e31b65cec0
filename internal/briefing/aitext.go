package briefing

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ruleRunes make up decorative separator lines in the AI text
const ruleRunes = "─━═-=_*~·•"

// CleanText turns the AI HTML fragment (<b>, <br>, <p>, <li>) into plain
// text. Separator lines are dropped and blank lines collapsed.
func CleanText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	text := s
	if strings.Contains(s, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + s + "</div>"))
		if err == nil {
			doc.Find("br").ReplaceWithHtml("\n")
			doc.Find("p, li, div > div").AppendHtml("\n")
			text = doc.Find("body").Text()
		}
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if isRule(line) {
			continue
		}
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// CleanTextPtr is CleanText over a nullable string
func CleanTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := CleanText(*s)
	return &cleaned
}

func isRule(line string) bool {
	if utf8.RuneCountInString(line) < 3 {
		return false
	}
	for _, r := range line {
		if !strings.ContainsRune(ruleRunes, r) && r != ' ' {
			return false
		}
	}
	return true
}
