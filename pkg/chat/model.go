package chat

import (
	"encoding/json"
	"fmt"
)

// ChatModel identifies a chat-completion model. The set is closed: values are
// the exact identifiers the service uses on the wire, and decoding rejects
// anything outside the table below.
type ChatModel string

const (
	ModelGPT3Turbo         ChatModel = "gpt-3.5-turbo-1106"
	ModelGPT3TurboInstruct ChatModel = "gpt-3.5-turbo-instruct"
	ModelGPT4Turbo         ChatModel = "gpt-4-1106-preview"
	ModelGPT4TurboVision   ChatModel = "gpt-4-1106-vision-preview"
)

// knownModels is the single source of truth for the closed identifier set,
// in the order KnownModels reports them.
var knownModels = []ChatModel{
	ModelGPT3Turbo,
	ModelGPT3TurboInstruct,
	ModelGPT4Turbo,
	ModelGPT4TurboVision,
}

// KnownModels returns the closed identifier set in a stable order.
func KnownModels() []ChatModel {
	models := make([]ChatModel, len(knownModels))
	copy(models, knownModels)
	return models
}

// IsKnownModel reports whether id is in the closed identifier set.
func IsKnownModel(id ChatModel) bool {
	for _, m := range knownModels {
		if m == id {
			return true
		}
	}
	return false
}

func (m *ChatModel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !IsKnownModel(ChatModel(s)) {
		return &DecodeError{
			Kind:  DecodeKindTypeMismatch,
			Field: "model",
			Err:   fmt.Errorf("unknown model %q", s),
		}
	}
	*m = ChatModel(s)
	return nil
}

// ResponseFormatType is the output format the model must produce.
type ResponseFormatType string

const (
	ResponseFormatText ResponseFormatType = "text"
	ResponseFormatJSON ResponseFormatType = "json"
)

// ResponseFormat wraps the format type in the object shape the wire expects.
type ResponseFormat struct {
	Type ResponseFormatType `json:"type"`
}
