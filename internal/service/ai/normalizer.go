package ai

import (
	"encoding/json"
	"strings"

	"docmind/internal/domain"
)

// Operation identifies which AI operation produced a response. The model is
// asked for plain Markdown but often wraps its answer in a JSON envelope
// keyed by the operation name, so unwrapping is operation-aware.
type Operation string

const (
	OpGenerate  Operation = "generate"
	OpReview    Operation = "review"
	OpTranslate Operation = "translate"
	OpSummarize Operation = "summarize"
	OpChat      Operation = "chat"
)

// operationKeys maps each operation to its envelope key. The generic keys
// "response" and "content" are tried first for every operation.
var operationKeys = map[Operation]string{
	OpGenerate:  "documentation",
	OpReview:    "review",
	OpTranslate: "translation",
	OpSummarize: "summary",
	OpChat:      "answer",
}

// Result is a normalized AI response. Text is always set. JSON is set only
// when the response was a structured object with no recognizable envelope;
// Text then holds its pretty-printed form.
type Result struct {
	Text string
	JSON map[string]any
}

// Normalize unwraps a raw model response into displayable text. Wrapper keys
// are tried in priority order: "response", "content", then the key for the
// given operation. A response that is valid JSON but matches no key is kept
// as structured data alongside its pretty-printed rendering.
func Normalize(raw string, op Operation) (Result, error) {
	text := strings.TrimSpace(stripCodeFence(raw))
	if text == "" {
		return Result{}, domain.ErrEmptyResponse
	}

	// Plain text is the common case; only brace-shaped responses are parsed.
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return Result{Text: text}, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return Result{Text: text}, nil
	}

	obj, isObject := parsed.(map[string]any)
	if isObject {
		keys := []string{"response", "content"}
		if opKey, ok := operationKeys[op]; ok {
			keys = append(keys, opKey)
		}
		for _, key := range keys {
			if value, ok := obj[key].(string); ok && strings.TrimSpace(value) != "" {
				return Result{Text: strings.TrimSpace(value)}, nil
			}
		}
	}

	// Unrecognized structure. Render it readably; only objects are worth
	// keeping as structured data.
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return Result{Text: text}, nil
	}
	if isObject {
		return Result{Text: string(pretty), JSON: obj}, nil
	}
	return Result{Text: string(pretty)}, nil
}

// stripCodeFence removes a surrounding Markdown code fence, which the model
// adds around JSON payloads despite instructions.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence.
		first := trimmed[:idx]
		if len(first) <= 10 && !strings.ContainsAny(first, "{}") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return trimmed
}
