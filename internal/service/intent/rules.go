package intent

import (
	"regexp"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// RuleConfidence is reported for every rule match.
const RuleConfidence = 0.8

type rule struct {
	re     *regexp.Regexp
	intent domain.Intent
}

// Go's \b only knows ASCII word characters, so Cyrillic and umlaut words
// get an explicit letter/digit boundary instead.
func words(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + pattern + `)(?:$|[^\p{L}\p{N}_])`)
}

func anywhere(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + pattern + `)`)
}

// rules is evaluated top to bottom and the first match wins.
var rules = []rule{
	// RU
	{words(`(создай|поставь|добавь|запланируй|организуй)\s+(встречу|митинг|звонок|созвон|конференцию)`), domain.IntentCreateMeeting},
	{words(`позвони|созвонись|набери|перезвони|свяжись`), domain.IntentCallSomeone},
	{words(`задачу|напоминание|напомни|зафиксируй|запиши|добавь\s+задачу`), domain.IntentCreateTask},
	{words(`подытож\p{L}*|суммаризируй|кратко|итоги|выжимка|резюме`), domain.IntentSummarize},
	{words(`переведи|перевод|переведи\s+на`), domain.IntentTranslate},
	{words(`привет|здравствуй\p{L}*|как\s+дела|что\s+делаешь|спасибо|пока`), domain.IntentSmallTalk},

	// DE
	{words(`(termin|meeting|besprechung)\s*(erstellen|machen|planen|organisieren|einrichten)`), domain.IntentCreateMeeting},
	{words(`anrufen|ruf\s+(?:\p{L}+\s+){0,3}an|telefonat|telefonieren|kontaktieren`), domain.IntentCallSomeone},
	{words(`(aufgabe|todo|erinnerung|termin|notiz)\s*(erstellen|machen|hinzufügen)`), domain.IntentCreateTask},
	{words(`zusammenfassung|kurz\s+zusammen|zusammenfassen|resümee`), domain.IntentSummarize},
	{words(`übersetze|übersetzung|übersetzen`), domain.IntentTranslate},
	{words(`hallo|guten\s+tag|wie\s+geht|danke|tschüss`), domain.IntentSmallTalk},

	// EN
	{words(`(create|schedule|set|plan|organize|book)\s+(a\s+|an\s+)?(meeting|call|conference|appointment)`), domain.IntentCreateMeeting},
	{words(`call|dial|ring|phone|contact`), domain.IntentCallSomeone},
	{words(`(task|todo|remind|reminder|note)\s*(create|add|make)|(add|create|make|new)\s+(a\s+)?(task|todo|reminder|note)|remind\s+me`), domain.IntentCreateTask},
	{words(`summarize|summarise|summary|tl;dr|brief|overview`), domain.IntentSummarize},
	{words(`translate|translation|convert`), domain.IntentTranslate},
	{words(`hello|hi|hey|how\s+are|what'?s\s+up|thanks|thank\s+you|bye`), domain.IntentSmallTalk},

	// ZH
	{anywhere(`(创建|安排|组织|计划).*(会议|通话|电话|约会)`), domain.IntentCreateMeeting},
	{anywhere(`打电话|致电|呼叫|联系|通话`), domain.IntentCallSomeone},
	{anywhere(`任务|待办|提醒|笔记|记录`), domain.IntentCreateTask},
	{anywhere(`总结|概述|摘要|简要`), domain.IntentSummarize},
	{anywhere(`翻译|转换`), domain.IntentTranslate},
	{anywhere(`你好|您好|怎么样|谢谢|再见`), domain.IntentSmallTalk},
}

// ClassifyByRules runs the rule table only. It is pure and never touches
// the network; no match yields unknown with confidence 0.
func ClassifyByRules(text string) domain.IntentResult {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return domain.IntentResult{Intent: r.intent, Confidence: RuleConfidence}
		}
	}
	return domain.UnknownIntent()
}
