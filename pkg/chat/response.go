package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FinishReason is why the model stopped generating. The set is closed;
// decoding rejects anything else. An absent finish_reason decodes as Stop.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonToolCalls     FinishReason = "tool_calls"
)

var knownFinishReasons = map[FinishReason]struct{}{
	FinishReasonStop:          {},
	FinishReasonLength:        {},
	FinishReasonContentFilter: {},
	FinishReasonToolCalls:     {},
}

// ChatCompletionResponse is the decoded service reply.
type ChatCompletionResponse struct {
	ID                string    `json:"id"`
	Choices           []Choice  `json:"choices"`
	Created           int64     `json:"created"`
	Model             ChatModel `json:"model"`
	SystemFingerprint string    `json:"system_fingerprint"`
	Object            string    `json:"object"`
	Usage             Usage     `json:"usage"`
}

// Choice is one generated completion.
type Choice struct {
	FinishReason FinishReason     `json:"finish_reason"`
	Index        int              `json:"index"`
	Message      AssistantMessage `json:"message"`
}

// Usage is the token accounting for the whole request.
type Usage struct {
	CompletionTokens int `json:"completion_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// responseWire mirrors ChatCompletionResponse with pointers on the required
// fields so absence is detectable after unmarshaling.
type responseWire struct {
	ID                *string    `json:"id"`
	Choices           []Choice   `json:"choices"`
	Created           *int64     `json:"created"`
	Model             *ChatModel `json:"model"`
	SystemFingerprint string     `json:"system_fingerprint"`
	Object            *string    `json:"object"`
	Usage             *Usage     `json:"usage"`
}

// DecodeResponse parses a service reply. Absent required fields (id, created,
// model, object, usage) yield a DecodeError of kind missing_field; shape
// errors yield kind type_mismatch. Fields the model does not know are
// ignored, an absent choices list decodes as empty, and an absent
// finish_reason defaults to Stop.
func DecodeResponse(data []byte) (*ChatCompletionResponse, error) {
	var wire responseWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, decodeFailure(err)
	}

	required := []struct {
		name    string
		present bool
	}{
		{"id", wire.ID != nil},
		{"created", wire.Created != nil},
		{"model", wire.Model != nil},
		{"object", wire.Object != nil},
		{"usage", wire.Usage != nil},
	}
	for _, f := range required {
		if !f.present {
			return nil, &DecodeError{Kind: DecodeKindMissingField, Field: f.name}
		}
	}

	resp := &ChatCompletionResponse{
		ID:                *wire.ID,
		Choices:           make([]Choice, 0, len(wire.Choices)),
		Created:           *wire.Created,
		Model:             *wire.Model,
		SystemFingerprint: wire.SystemFingerprint,
		Object:            *wire.Object,
		Usage:             *wire.Usage,
	}

	for _, c := range wire.Choices {
		reason := c.FinishReason
		if reason == "" {
			reason = FinishReasonStop
		}
		if _, ok := knownFinishReasons[reason]; !ok {
			return nil, &DecodeError{
				Kind:  DecodeKindTypeMismatch,
				Field: "finish_reason",
				Err:   fmt.Errorf("unknown finish reason %q", reason),
			}
		}
		c.FinishReason = reason
		resp.Choices = append(resp.Choices, c)
	}

	return resp, nil
}

// decodeFailure maps an encoding/json error onto the decode taxonomy,
// passing DecodeErrors raised by enum unmarshalers through unchanged.
func decodeFailure(err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &DecodeError{Kind: DecodeKindTypeMismatch, Field: te.Field, Err: err}
	}
	return &DecodeError{Kind: DecodeKindTypeMismatch, Err: err}
}
