package tts

import (
	"regexp"
	"strings"
)

// Narrative dialogue carries decorations that wreck prosody: parenthetical
// stage directions, emoticon symbol runs, and ornamental punctuation. The
// patterns mirror what the reference corpus actually contains.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[^\p{L}\p{N}_\s]{3,}`),          // runs of 3+ symbols
	regexp.MustCompile(`o\([^)]*\)[^\p{L}\p{N}_\s]*`),   // o(...)o style emoticons
	regexp.MustCompile(`\([^)]*\)[^\p{L}\p{N}_\s]*`),    // (stage direction)
	regexp.MustCompile(`[^\p{L}\p{N}_\s]*\([^)]*\)`),
	regexp.MustCompile(`[★☆♪♫♬♭♮♯]+`),
	regexp.MustCompile(`[（）()【】\[\]{}｛｝]+`),
	regexp.MustCompile(`[！!？?。.，,；;：:]+`),
	regexp.MustCompile("[~～＠@#＃$＄%％^＾&＆*＊]+"),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize strips decorative annotation from text before synthesis. It is
// best-effort: if stripping would empty a non-empty input, the original text
// is returned instead.
func Sanitize(text string) string {
	if text == "" {
		return text
	}

	clean := text
	for _, re := range sanitizePatterns {
		clean = re.ReplaceAllString(clean, "")
	}
	clean = strings.TrimSpace(whitespaceRun.ReplaceAllString(clean, " "))

	if clean == "" {
		return text
	}
	return clean
}
