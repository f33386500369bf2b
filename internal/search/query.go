package search

import (
	"strings"
	"unicode"
)

// MaxVariants caps how many phrasings a single query expands into.
const MaxVariants = 8

type Query struct {
	Original   string
	Normalized string
	Variants   []string
}

// Normalize lowercases input, keeps letters, digits and single spaces and drops
// everything else.
func Normalize(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Expand returns the normalized query followed by synonym variants. A leading
// phrase with synonyms is replaced while the remaining words are kept, so
// "frontend jakarta" also yields "front end jakarta". Compact spellings of
// spaced phrases ("officeboy") are recognised too.
func Expand(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, MaxVariants)
	seen := make(map[string]struct{}, MaxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(out) >= MaxVariants {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	words := strings.Fields(normalized)

	replacePrefix := func(phrase string, rest []string) {
		syns := Synonyms(phrase)
		if len(syns) == 0 {
			return
		}
		tail := strings.Join(rest, " ")
		for _, syn := range syns {
			add(syn + " " + tail)
		}
	}

	for n := min(len(words), 2); n >= 1; n-- {
		replacePrefix(strings.Join(words[:n], " "), words[n:])
	}

	if spaced := spacedForm(words[0]); spaced != "" {
		rest := words[1:]
		add(spaced + " " + strings.Join(rest, " "))
		replacePrefix(spaced, rest)
	}
	return out
}

// spacedForm returns the registered multi-word phrase whose compact spelling
// equals word, or "".
func spacedForm(word string) string {
	for k := range synonyms {
		if strings.Contains(k, " ") && strings.ReplaceAll(k, " ", "") == word {
			return k
		}
	}
	return ""
}

func Parse(input string) Query {
	q := Query{Original: input, Normalized: Normalize(input)}
	q.Variants = Expand(q.Normalized)
	return q
}

// Patterns renders variants as ILIKE substring patterns.
func (q Query) Patterns() []string {
	out := make([]string, 0, len(q.Variants))
	for _, v := range q.Variants {
		out = append(out, "%"+escapeLike(v)+"%")
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
