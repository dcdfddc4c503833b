package chat

// ChatCompletionRequest is one complete chat-completion call. Values are
// produced by RequestBuilder; once built they are read-only and safe to share.
// Optional fields left unset are absent from the wire form entirely, never
// emitted as zero values. Messages is always emitted, as "[]" when empty.
type ChatCompletionRequest struct {
	Messages         []Message       `json:"messages"`
	Model            ChatModel       `json:"model"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	N                *int            `json:"n,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	ResponseFormat   *ResponseFormat `json:"response_format,omitempty"`
	Seed             *int            `json:"seed,omitempty"`
	Stop             *string         `json:"stop,omitempty"`
	Stream           *bool           `json:"stream,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	Tools            []Tool          `json:"tools,omitempty"`
	ToolChoice       *ToolChoice     `json:"tool_choice,omitempty"`
	User             *string         `json:"user,omitempty"`
}

// requestDefaults is the single place request-level defaults live, so
// cross-field consistency stays checkable in one spot.
var requestDefaults = struct {
	Model          ChatModel
	ResponseFormat ResponseFormatType
}{
	Model:          ModelGPT3Turbo,
	ResponseFormat: ResponseFormatJSON,
}

// DefaultModel is used when a request is built without an explicit model.
func DefaultModel() ChatModel { return requestDefaults.Model }

// RequestBuilder accumulates the parts of a ChatCompletionRequest. Setters
// chain and may be called in any order; later calls win. Build fails only
// when Messages was never supplied. Builders are not safe for concurrent use.
type RequestBuilder struct {
	req         ChatCompletionRequest
	messagesSet bool
}

// NewRequestBuilder returns an empty builder.
func NewRequestBuilder() *RequestBuilder { return &RequestBuilder{} }

// Messages supplies the conversation. Calling it with no arguments is valid
// and yields an explicitly empty conversation.
func (b *RequestBuilder) Messages(msgs ...Message) *RequestBuilder {
	b.req.Messages = msgs
	b.messagesSet = true
	return b
}

// Model overrides the default model.
func (b *RequestBuilder) Model(m ChatModel) *RequestBuilder {
	b.req.Model = m
	return b
}

// FrequencyPenalty penalizes tokens by their frequency so far. The value is
// not range-checked; the service enforces its own bounds.
func (b *RequestBuilder) FrequencyPenalty(v float64) *RequestBuilder {
	b.req.FrequencyPenalty = &v
	return b
}

// MaxTokens caps the number of generated tokens.
func (b *RequestBuilder) MaxTokens(n int) *RequestBuilder {
	b.req.MaxTokens = &n
	return b
}

// N sets how many completion choices to generate.
func (b *RequestBuilder) N(n int) *RequestBuilder {
	b.req.N = &n
	return b
}

// PresencePenalty penalizes tokens that already appeared. Not range-checked.
func (b *RequestBuilder) PresencePenalty(v float64) *RequestBuilder {
	b.req.PresencePenalty = &v
	return b
}

// ResponseFormat constrains the output format.
func (b *RequestBuilder) ResponseFormat(t ResponseFormatType) *RequestBuilder {
	b.req.ResponseFormat = &ResponseFormat{Type: t}
	return b
}

// Seed asks the service to sample deterministically on a best-effort basis.
func (b *RequestBuilder) Seed(n int) *RequestBuilder {
	b.req.Seed = &n
	return b
}

// Stop sets a sequence at which generation stops.
func (b *RequestBuilder) Stop(s string) *RequestBuilder {
	b.req.Stop = &s
	return b
}

// Stream requests server-sent partial deltas. The flag is passed through
// opaque; this package does not decode streamed replies.
func (b *RequestBuilder) Stream(v bool) *RequestBuilder {
	b.req.Stream = &v
	return b
}

// Temperature sets the sampling temperature. Not range-checked, and setting
// both Temperature and TopP is not prevented.
func (b *RequestBuilder) Temperature(v float64) *RequestBuilder {
	b.req.Temperature = &v
	return b
}

// TopP sets the nucleus-sampling threshold. Not range-checked.
func (b *RequestBuilder) TopP(v float64) *RequestBuilder {
	b.req.TopP = &v
	return b
}

// Tools supplies the functions the model may call. An empty list is omitted
// from the wire form.
func (b *RequestBuilder) Tools(tools ...Tool) *RequestBuilder {
	b.req.Tools = tools
	return b
}

// ToolChoice controls tool selection. Whether a forced function appears in
// Tools is the caller's responsibility.
func (b *RequestBuilder) ToolChoice(tc ToolChoice) *RequestBuilder {
	b.req.ToolChoice = &tc
	return b
}

// User tags the request with an end-user identifier.
func (b *RequestBuilder) User(id string) *RequestBuilder {
	b.req.User = &id
	return b
}

// Build validates the builder and returns the assembled request. The result
// is detached from the builder; further setter calls do not affect it.
func (b *RequestBuilder) Build() (*ChatCompletionRequest, error) {
	if !b.messagesSet {
		return nil, &BuildError{Kind: BuildKindMissingRequiredField, Field: "messages"}
	}

	req := b.req
	req.Messages = make([]Message, len(b.req.Messages))
	copy(req.Messages, b.req.Messages)
	if b.req.Tools != nil {
		req.Tools = append([]Tool(nil), b.req.Tools...)
	}

	if req.Model == "" {
		req.Model = requestDefaults.Model
	}
	if req.ResponseFormat != nil && req.ResponseFormat.Type == "" {
		req.ResponseFormat = &ResponseFormat{Type: requestDefaults.ResponseFormat}
	}

	return &req, nil
}
