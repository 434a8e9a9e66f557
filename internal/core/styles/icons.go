package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconSuggestion = "\U000F0EB5"
	IconAccept     = ""
	IconReject     = ""
	IconReview     = ""
	IconMissing    = ""
	IconInfo       = ""
	IconWarning    = ""
	IconError      = ""
)

// Category icons, keyed by suggestion category name.
var categoryIcons = map[string]string{
	"Grammar":       "",
	"Spelling":      "\U000F04C6",
	"Clarity":       "",
	"Concision":     "",
	"Style":         "",
	"Tone":          "",
	"Adverb":        "",
	"Passive Voice": "",
	"Word Choice":   "",
}

// IconForCategory returns the icon for a suggestion category, falling back
// to the generic suggestion icon.
func IconForCategory(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return IconSuggestion
}
