package services

import (
	"regexp"
	"sync"
	"unicode"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/assistant"
)

// BannedWords are rejected in assistant questions. Matching ignores case
// and accents.
var BannedWords = []string{
	"weon", "weona", "aweonao", "conchetumare", "ctm", "culiao", "culiado",
	"maricon", "puta", "puto", "mierda", "chucha", "hueon", "huevon",
	"fuck", "shit", "bitch", "asshole",
	"porno", "nudes", "malware", "phishing",
}

type ModerationService struct {
	bannedWordRegexps []*regexp.Regexp
	compiled          bool
	mu                sync.RWMutex
}

func NewModerationService() *ModerationService {
	ms := &ModerationService{}
	ms.compilePatterns()
	return ms
}

func (ms *ModerationService) compilePatterns() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.compiled {
		return
	}

	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
		if err == nil {
			ms.bannedWordRegexps = append(ms.bannedWordRegexps, re)
		}
	}
	ms.compiled = true
}

// FilterContent reports whether text is acceptable and, if not, why.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	normalized := assistant.Normalize(text)
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(normalized) {
			return false, "inappropriate_language"
		}
	}
	if hasRun(normalized, 6) {
		return false, "spam_detected"
	}
	return true, ""
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language": "La pregunta contiene lenguaje inapropiado.",
		"spam_detected":          "La pregunta parece ser spam.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "La pregunta no cumple con las normas de uso."
}

// hasRun reports whether s repeats one letter n or more times in a row.
// Digits never count: RUTs like 11111111-1 and amounts are legitimate.
func hasRun(s string, n int) bool {
	var prev rune
	count := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			prev, count = 0, 0
			continue
		}
		if r == prev {
			count++
			if count >= n {
				return true
			}
			continue
		}
		prev, count = r, 1
	}
	return false
}
