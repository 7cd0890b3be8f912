package dialogue

import (
	"regexp"
	"strings"

	"github.com/seu-repo/ai-secretary/internal/service/lang"
)

// targetPatterns capture the target language of a translate request.
var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:to|into)\s+(\p{L}+)`),
	regexp.MustCompile(`(?i)(?:^|[^\p{L}])на\s+(\p{L}+)`),
	regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:auf|ins)\s+(\p{L}+)`),
	regexp.MustCompile(`(?:翻译成|翻成|译成)\s*(英语|英文|德语|德文|俄语|俄文|中文|汉语|法语|西班牙语|意大利语|葡萄牙语|日语|韩语)`),
}

var zhLanguageNames = map[string]string{
	"英文": "en",
	"德文": "de",
	"俄文": "ru",
}

var translateVerb = regexp.MustCompile(`(?i)^\s*(?:please\s+|пожалуйста\s+|bitte\s+|请)?(?:translate|переведи(?:те)?|übersetzen|übersetze|翻译)\s*[:,]?\s*`)

// parseTranslateRequest splits a translate request into the target
// language and the text to translate. ok is false when no target language
// was named. The last resolvable mention wins, so "translate 'go to bed'
// to German" targets German.
func parseTranslateRequest(text string) (target, body string, ok bool) {
	for _, re := range targetPatterns {
		matches := re.FindAllStringSubmatchIndex(text, -1)
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			code, found := resolveLanguage(text[m[2]:m[3]])
			if !found {
				continue
			}
			rest := text[:m[0]] + " " + text[m[1]:]
			return code, cleanBody(rest, text), true
		}
	}
	return "", cleanBody(text, text), false
}

func resolveLanguage(name string) (string, bool) {
	if code, ok := lang.CodeForName(name); ok {
		return code, true
	}
	code, ok := zhLanguageNames[name]
	return code, ok
}

func cleanBody(rest, original string) string {
	body := translateVerb.ReplaceAllString(rest, "")
	body = strings.Trim(body, " \t\n:,-")
	if body == "" {
		return strings.TrimSpace(original)
	}
	return body
}
