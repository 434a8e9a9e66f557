package analysis

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/colonyops/scribe/internal/core/suggest"
)

// Builtin is a rule-based source that needs no backend. It looks for weak
// intensifiers, verb and adverb pairs with a stronger single verb, wordy
// phrases, doubled words and simple passive constructions.
type Builtin struct {
	rules []rule
}

// rule finds candidate suggestions in one paragraph. Offsets are byte
// offsets into the paragraph.
type rule func(text string) []finding

type finding struct {
	start, end  int
	replacement string
	reasoning   string
	category    suggest.Category
}

// NewBuiltin returns the builtin source with every rule enabled.
func NewBuiltin() *Builtin {
	return &Builtin{
		rules: []rule{
			phraseRule(intensifiers, suggest.CategoryWordChoice,
				"An intensifier propped up a weak adjective; a stronger word says it in one."),
			phraseRule(verbAdverbs, suggest.CategoryAdverb,
				"A precise verb reads better than a verb leaning on an adverb."),
			phraseRule(wordyPhrases, suggest.CategoryConcision,
				"The same meaning fits in fewer words."),
			doubledWords,
			passiveVoice,
		},
	}
}

// Produce runs every rule over each paragraph. Suggestions come back in
// reading order; when two findings overlap the earlier one wins.
func (b *Builtin) Produce(ctx context.Context, plainText string) ([]suggest.Suggestion, error) {
	var out []suggest.Suggestion

	for para := range strings.SplitSeq(plainText, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var found []finding
		for _, r := range b.rules {
			found = append(found, r(para)...)
		}
		slices.SortStableFunc(found, func(a, b finding) int {
			return a.start - b.start
		})

		last := -1
		for _, f := range found {
			if f.start < last {
				continue
			}
			last = f.end

			original := para[f.start:f.end]
			out = append(out, suggest.Suggestion{
				ID:              len(out),
				OriginalText:    original,
				ReplacementText: matchCase(original, f.replacement),
				Reasoning:       f.reasoning,
				Category:        f.category,
			})
		}
	}

	return out, nil
}

var intensifiers = map[string]string{
	"very good":       "excellent",
	"very bad":        "terrible",
	"very big":        "enormous",
	"very small":      "tiny",
	"very happy":      "delighted",
	"very sad":        "miserable",
	"very tired":      "exhausted",
	"very hungry":     "starving",
	"very important":  "crucial",
	"very old":        "ancient",
	"very cold":       "freezing",
	"very hot":        "scorching",
	"very scared":     "terrified",
	"really good":     "excellent",
	"really bad":      "awful",
	"extremely large": "huge",
}

var verbAdverbs = map[string]string{
	"ran quickly":     "sprinted",
	"run quickly":     "sprint",
	"walked slowly":   "strolled",
	"walked quickly":  "hurried",
	"said quietly":    "whispered",
	"said loudly":     "shouted",
	"ate quickly":     "devoured",
	"looked quickly":  "glanced",
	"closed loudly":   "slammed",
	"shut loudly":     "slammed",
	"cried loudly":    "wailed",
	"looked angrily":  "glared",
	"smiled broadly":  "beamed",
	"drank quickly":   "gulped",
	"moved slowly":    "crept",
	"spoke softly":    "murmured",
	"laughed quietly": "chuckled",
}

var wordyPhrases = map[string]string{
	"in order to":             "to",
	"due to the fact that":    "because",
	"at this point in time":   "now",
	"in the event that":       "if",
	"for the purpose of":      "for",
	"in spite of the fact":    "although",
	"has the ability to":      "can",
	"a large number of":       "many",
	"at the present time":     "now",
	"in close proximity to":   "near",
	"with regard to":          "about",
	"it is important to note": "note",
}

// phraseRule matches whole-word, case-insensitive occurrences of each
// phrase in table.
func phraseRule(table map[string]string, category suggest.Category, reasoning string) rule {
	phrases := make([]string, 0, len(table))
	for p := range table {
		phrases = append(phrases, p)
	}
	// Longest first so the alternation prefers the longer phrase.
	slices.SortFunc(phrases, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	re := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)

	return func(text string) []finding {
		var found []finding
		for _, m := range re.FindAllStringIndex(text, -1) {
			found = append(found, finding{
				start:       m[0],
				end:         m[1],
				replacement: table[strings.ToLower(text[m[0]:m[1]])],
				reasoning:   reasoning,
				category:    category,
			})
		}
		return found
	}
}

var wordRe = regexp.MustCompile(`[\p{L}']+`)

// Words that legitimately repeat.
var allowedRepeats = map[string]bool{"had": true, "that": true}

func doubledWords(text string) []finding {
	var found []finding
	words := wordRe.FindAllStringIndex(text, -1)
	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		first := strings.ToLower(text[prev[0]:prev[1]])
		if first != strings.ToLower(text[cur[0]:cur[1]]) || allowedRepeats[first] {
			continue
		}
		if strings.TrimSpace(text[prev[1]:cur[0]]) != "" {
			continue
		}
		found = append(found, finding{
			start:       prev[0],
			end:         cur[1],
			replacement: text[prev[0]:prev[1]],
			reasoning:   "The word is repeated.",
			category:    suggest.CategoryGrammar,
		})
	}
	return found
}

var passiveRe = regexp.MustCompile(`(?i)\b((?:the|a|an|this|that|my|his|her|our|their) \w+|\w+) (?:was|were) (\w+ed) by ((?:the|a|an|this|that|my|his|her|our|their) \w+|\w+)\b`)

// passiveVoice flips "the ball was kicked by the boy" into "the boy kicked
// the ball". Only regular past participles are handled.
func passiveVoice(text string) []finding {
	var found []finding
	for _, m := range passiveRe.FindAllStringSubmatchIndex(text, -1) {
		object := text[m[2]:m[3]]
		verb := text[m[4]:m[5]]
		subject := text[m[6]:m[7]]

		found = append(found, finding{
			start:       m[0],
			end:         m[1],
			replacement: strings.Join([]string{subject, verb, lowerFirst(object)}, " "),
			reasoning:   "Active voice names who acted and reads more directly.",
			category:    suggest.CategoryPassiveVoice,
		})
	}
	return found
}

// matchCase capitalises replacement when original starts with a capital.
func matchCase(original, replacement string) string {
	o, _ := utf8.DecodeRuneInString(original)
	if !unicode.IsUpper(o) || replacement == "" {
		return replacement
	}
	r, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(r)) + replacement[size:]
}

// lowerFirst lowercases a leading determiner so it reads naturally once
// moved to the end of a sentence. Proper nouns are left alone.
func lowerFirst(s string) string {
	word, rest, _ := strings.Cut(s, " ")
	switch strings.ToLower(word) {
	case "the", "a", "an", "this", "that", "my", "his", "her", "our", "their":
		if rest == "" {
			return strings.ToLower(word)
		}
		return strings.ToLower(word) + " " + rest
	}
	return s
}
