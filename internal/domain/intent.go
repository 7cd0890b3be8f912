package domain

// Intent is the closed set of actions a message can request.
type Intent string

const (
	IntentCreateMeeting Intent = "create_meeting"
	IntentCallSomeone   Intent = "call_someone"
	IntentCreateTask    Intent = "create_task"
	IntentSummarize     Intent = "summarize"
	IntentTranslate     Intent = "translate"
	IntentSmallTalk     Intent = "small_talk"
	IntentUnknown       Intent = "unknown"
)

// AllIntents lists every intent in declaration order.
var AllIntents = []Intent{
	IntentCreateMeeting,
	IntentCallSomeone,
	IntentCreateTask,
	IntentSummarize,
	IntentTranslate,
	IntentSmallTalk,
	IntentUnknown,
}

// Valid reports whether i belongs to the closed intent set.
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

func (i Intent) String() string {
	return string(i)
}

// IntentResult is the outcome of classifying one message.
// Confidence is informational only.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}

// UnknownIntent is the safe default returned whenever classification degrades.
func UnknownIntent() IntentResult {
	return IntentResult{Intent: IntentUnknown, Confidence: 0}
}
