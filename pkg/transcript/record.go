package transcript

import (
	"context"
	"fmt"

	"github.com/papercomputeco/chatctl/pkg/chat"
)

// AppendExchange records a request's conversation followed by the reply's
// first choice, returning the hash of the final entry. Identical histories
// chain onto the entries already stored; when the service answers a known
// history differently, only the reply entry branches. A reply with no
// choices stores the request side only.
func AppendExchange(ctx context.Context, store Store, req *chat.ChatCompletionRequest, resp *chat.ChatCompletionResponse) (string, error) {
	var parent *Entry

	for _, msg := range req.Messages {
		entry := NewEntry(messageRecord(msg, string(req.Model)), parent)
		if err := store.Put(ctx, entry); err != nil {
			return "", fmt.Errorf("storing request turn: %w", err)
		}
		parent = entry
	}

	if resp != nil && len(resp.Choices) > 0 {
		reply := resp.Choices[0].Message
		entry := NewEntry(Record{
			Role:    string(chat.RoleAssistant),
			Content: reply.Content,
			Name:    reply.Name,
			Model:   string(resp.Model),
		}, parent)
		if err := store.Put(ctx, entry); err != nil {
			return "", fmt.Errorf("storing reply turn: %w", err)
		}
		parent = entry
	}

	if parent == nil {
		return "", nil
	}
	return parent.Hash, nil
}

func messageRecord(msg chat.Message, model string) Record {
	rec := Record{Role: string(msg.Role()), Model: model}
	switch m := msg.(type) {
	case chat.SystemMessage:
		rec.Content, rec.Name = m.Content, m.Name
	case chat.UserMessage:
		rec.Content, rec.Name = m.Content, m.Name
	case chat.AssistantMessage:
		rec.Content, rec.Name = m.Content, m.Name
	case chat.ToolMessage:
		rec.Content = m.Content
	}
	return rec
}
