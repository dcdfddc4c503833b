// Package chat provides a typed model of the chat-completions wire schema:
// message variants, tool definitions, request construction, and response
// decoding. Field names and omission rules match what the remote service
// expects byte-for-byte; anything the service would accept but this package
// does not validate (sampling ranges, tool/tool_choice consistency) is passed
// through as-is.
package chat

import "encoding/json"

// Role discriminates the message variants on the wire.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single conversation turn. The union is closed over the four
// roles; each variant serializes with a top-level "role" tag flattened
// alongside its own fields.
type Message interface {
	json.Marshaler

	// Role reports the wire discriminator for the variant.
	Role() Role

	message()
}

// SystemMessage sets the assistant's behavior for the conversation.
type SystemMessage struct {
	Content string `json:"content"`
	// Name differentiates participants of the same role. Empty means absent.
	Name string `json:"name,omitempty"`
}

// UserMessage is a turn authored by the end user.
type UserMessage struct {
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// AssistantMessage is a turn generated by the model. When a reply that
// requested tool calls is replayed as history, ToolCalls carries them back
// verbatim.
type AssistantMessage struct {
	Content   string     `json:"content"`
	Name      string     `json:"name,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolMessage feeds a tool's output back to the model, keyed to the call that
// requested it.
type ToolMessage struct {
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id"`
}

// NewSystemMessage builds a system turn. An empty name is omitted from the
// wire form.
func NewSystemMessage(content, name string) Message {
	return SystemMessage{Content: content, Name: name}
}

// NewUserMessage builds a user turn. An empty name is omitted from the wire
// form.
func NewUserMessage(content, name string) Message {
	return UserMessage{Content: content, Name: name}
}

// NewAssistantMessage builds an assistant turn, typically to replay a prior
// reply as conversation history.
func NewAssistantMessage(content string, toolCalls ...ToolCall) Message {
	return AssistantMessage{Content: content, ToolCalls: toolCalls}
}

// NewToolMessage builds a tool-result turn answering the given tool call.
func NewToolMessage(content, toolCallID string) Message {
	return ToolMessage{Content: content, ToolCallID: toolCallID}
}

func (m SystemMessage) Role() Role    { return RoleSystem }
func (m UserMessage) Role() Role      { return RoleUser }
func (m AssistantMessage) Role() Role { return RoleAssistant }
func (m ToolMessage) Role() Role      { return RoleTool }

func (SystemMessage) message()    {}
func (UserMessage) message()      {}
func (AssistantMessage) message() {}
func (ToolMessage) message()      {}

func (m SystemMessage) MarshalJSON() ([]byte, error) {
	type alias SystemMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{m.Role(), alias(m)})
}

func (m UserMessage) MarshalJSON() ([]byte, error) {
	type alias UserMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{m.Role(), alias(m)})
}

func (m AssistantMessage) MarshalJSON() ([]byte, error) {
	type alias AssistantMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{m.Role(), alias(m)})
}

func (m ToolMessage) MarshalJSON() ([]byte, error) {
	type alias ToolMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{m.Role(), alias(m)})
}
