package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/observability/telemetry"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

const fallbackConfidence = 0.5

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// resultSchema restricts model output to the closed intent set.
var resultSchema = jsonschema.MustCompileString("intent_result.json", fmt.Sprintf(`{
	"type": "object",
	"required": ["intent"],
	"properties": {
		"intent": {"enum": [%s]},
		"confidence": {"type": "number"}
	}
}`, quotedIntents()))

func quotedIntents() string {
	quoted := make([]string, len(domain.AllIntents))
	for i, in := range domain.AllIntents {
		quoted[i] = `"` + string(in) + `"`
	}
	return strings.Join(quoted, ", ")
}

// Classifier implements ports.IntentClassifier: rule table first, LLM second.
type Classifier struct {
	llm ports.LLMClient
	log *zap.Logger
}

// NewClassifier returns a classifier. A nil llm disables the fallback.
func NewClassifier(llm ports.LLMClient, log *zap.Logger) *Classifier {
	return &Classifier{llm: llm, log: log}
}

func (c *Classifier) Classify(ctx context.Context, text string) domain.IntentResult {
	if res := ClassifyByRules(text); res.Intent != domain.IntentUnknown {
		telemetry.ClassificationsTotal.WithLabelValues("rules", res.Intent.String()).Inc()
		return res
	}
	if c.llm == nil || strings.TrimSpace(text) == "" {
		telemetry.ClassificationsTotal.WithLabelValues("none", domain.IntentUnknown.String()).Inc()
		return domain.UnknownIntent()
	}

	res, err := c.classifyWithLLM(ctx, text)
	if err != nil {
		c.log.Warn("Intent fallback failed", zap.Error(err))
		telemetry.ClassificationsTotal.WithLabelValues("degraded", domain.IntentUnknown.String()).Inc()
		return domain.UnknownIntent()
	}
	telemetry.ClassificationsTotal.WithLabelValues("llm", res.Intent.String()).Inc()
	return res
}

func (c *Classifier) classifyWithLLM(ctx context.Context, text string) (domain.IntentResult, error) {
	prompt := fmt.Sprintf(`You are an intent classifier for a WhatsApp AI secretary.
Supported intents: %s.

Classify the user's intent from this text. Consider context and implied actions.
Return JSON: {"intent":"...","confidence":0.0-1.0}

Text: """%s"""`, strings.Join(intentNames(), ", "), text)

	out, err := c.llm.Complete(ctx, prompt, 0.1, 100)
	if err != nil {
		return domain.IntentResult{}, fmt.Errorf("completion: %w", err)
	}
	return ParseResult(out)
}

// ParseResult decodes a model reply into an IntentResult. The reply must
// contain a JSON object whose intent belongs to the closed set.
func ParseResult(out string) (domain.IntentResult, error) {
	raw := jsonObject.FindString(out)
	if raw == "" {
		return domain.IntentResult{}, fmt.Errorf("no JSON object in reply")
	}

	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.IntentResult{}, fmt.Errorf("decode reply: %w", err)
	}
	if err := resultSchema.Validate(v); err != nil {
		return domain.IntentResult{}, fmt.Errorf("reply out of schema: %w", err)
	}

	var parsed struct {
		Intent     domain.Intent `json:"intent"`
		Confidence *float64      `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.IntentResult{}, fmt.Errorf("decode reply: %w", err)
	}

	confidence := fallbackConfidence
	if parsed.Confidence != nil {
		confidence = clamp(*parsed.Confidence)
	}
	return domain.IntentResult{Intent: parsed.Intent, Confidence: confidence}, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func intentNames() []string {
	out := make([]string, len(domain.AllIntents))
	for i, in := range domain.AllIntents {
		out[i] = string(in)
	}
	return out
}
