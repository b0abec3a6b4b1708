package llm

import "strings"

// Known reply wrappers, stripped in order. New wrapper styles get a new
// entry here; call sites never change.
var openingFences = []string{
	"```json",
	"```",
}

const closingFence = "```"

// Sanitize strips conversational/markdown wrapping from a raw model reply so
// it parses as JSON. Pure and total: any input yields some output, and
// Sanitize(Sanitize(x)) == Sanitize(x). It does not repair truncated or
// otherwise malformed content, that is the parser's concern.
//
// The strippers run to a fixpoint, which is what keeps the function
// idempotent even for doubled or mismatched fences.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		prev := s
		for _, fence := range openingFences {
			if strings.HasPrefix(s, fence) {
				s = strings.TrimSpace(s[len(fence):])
				break
			}
		}
		if strings.HasSuffix(s, closingFence) {
			s = strings.TrimSpace(strings.TrimSuffix(s, closingFence))
		}
		if s == prev {
			return s
		}
	}
}
