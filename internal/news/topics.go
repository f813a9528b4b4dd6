package news

import (
	"strings"
	"unicode"
)

// TopicGeneral is assigned when no keyword matches
const TopicGeneral = "general"

// topicKeywords is checked in order; the first topic with a matching
// keyword wins.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"settlement", []string{"settlement", "refugee", "refugees", "migrant", "migrants", "visa", "humanitarian", "asylum", "newly arrived"}},
	{"aged-care", []string{"aged care", "seniors", "elderly", "older people", "home care", "dementia", "retirement"}},
	{"youth", []string{"youth", "young people", "students", "school", "camp", "teenagers"}},
	{"employment", []string{"job", "jobs", "employment", "career", "careers", "work rights", "skills", "apprenticeship"}},
	{"health", []string{"health", "mental", "wellbeing", "medicare", "vaccine", "vaccination", "covid"}},
	{"community", []string{"community", "festival", "harmony", "multicultural", "celebration", "celebrations", "volunteer", "volunteers"}},
}

// DeriveTopic tags an article by keyword matching over its title and URL.
// Matching is on whole words, so "aged-care" in a URL matches "aged care".
func DeriveTopic(texts ...string) string {
	normalized := " " + normalizeWords(strings.Join(texts, " ")) + " "
	for _, t := range topicKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(normalized, " "+kw+" ") {
				return t.topic
			}
		}
	}
	return TopicGeneral
}

// NormalizeTopic lowercases a configured topic and joins words with hyphens
func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(normalizeWords(topic)), "-")
}

func normalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
