package assistant

import (
	"encoding/json"
	"regexp"
	"strings"
)

// modelReply is the JSON contract the instruction prompt demands from the
// model. ExtractedData stays raw here; decoding into typed fields happens
// per action kind.
type modelReply struct {
	Message       string          `json:"message"`
	ActionType    string          `json:"action_type"`
	ExtractedData json.RawMessage `json:"extracted_data"`
	ReadyToCreate bool            `json:"ready_to_create"`
	MissingFields []string        `json:"missing_fields"`
}

var (
	fenceRe   = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?\\s*```")
	messageRe = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// parseModelReply recovers the structured payload from a raw model reply.
// The upstream generator is unreliable: the JSON may arrive wrapped in
// markdown fences, surrounded by prose, or subtly malformed. Strategies in
// order: strip fences, direct parse, balanced-brace scan from the first
// '{', then a first-'{' to last-'}' retry. Returns ok=false when nothing
// parseable was found.
func parseModelReply(text string) (*modelReply, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, false
	}

	if m := fenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	if r, ok := tryParse(cleaned); ok {
		return r, true
	}

	start := strings.IndexByte(cleaned, '{')
	if start == -1 {
		return nil, false
	}

	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if r, ok := tryParse(cleaned[start : i+1]); ok {
					return r, true
				}
				i = len(cleaned) // candidate broken, fall through to last-brace retry
			}
		}
	}

	end := strings.LastIndexByte(cleaned, '}')
	if end > start {
		if r, ok := tryParse(cleaned[start : end+1]); ok {
			return r, true
		}
	}

	return nil, false
}

func tryParse(candidate string) (*modelReply, bool) {
	var r modelReply
	if err := json.Unmarshal([]byte(candidate), &r); err != nil {
		return nil, false
	}
	if r.Message == "" {
		return nil, false
	}
	return &r, true
}

// extractMessage pulls just the human-readable message value out of raw,
// broken model output so the user is never shown mangled JSON. Returns ""
// when no message field is recognizable.
func extractMessage(text string) string {
	m := messageRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err != nil {
		return m[1]
	}
	return s
}
