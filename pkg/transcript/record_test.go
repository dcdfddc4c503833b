package transcript_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatctl/pkg/chat"
	"github.com/papercomputeco/chatctl/pkg/transcript"
)

var _ = Describe("AppendExchange", func() {
	var (
		store *transcript.MemoryStore
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = transcript.NewMemoryStore()
	})

	buildRequest := func(prompt string) *chat.ChatCompletionRequest {
		req, err := chat.NewRequestBuilder().
			Messages(
				chat.NewSystemMessage("be brief", "coach"),
				chat.NewUserMessage(prompt, "zheng"),
			).
			Build()
		Expect(err).NotTo(HaveOccurred())
		return req
	}

	response := func(content string) *chat.ChatCompletionResponse {
		return &chat.ChatCompletionResponse{
			ID:      "chatcmpl-test",
			Created: 1700000000,
			Model:   chat.ModelGPT3Turbo,
			Object:  "chat.completion",
			Choices: []chat.Choice{{
				FinishReason: chat.FinishReasonStop,
				Message:      chat.AssistantMessage{Content: content},
			}},
		}
	}

	It("chains the request turns and the reply", func() {
		head, err := transcript.AppendExchange(ctx, store, buildRequest("what is Go?"), response("a language"))
		Expect(err).NotTo(HaveOccurred())
		Expect(head).NotTo(BeEmpty())

		chain, err := store.Ancestry(ctx, head)
		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(3))

		Expect(chain[0].Record.Role).To(Equal("assistant"))
		Expect(chain[0].Record.Content).To(Equal("a language"))
		Expect(chain[1].Record.Role).To(Equal("user"))
		Expect(chain[1].Record.Name).To(Equal("zheng"))
		Expect(chain[2].Record.Role).To(Equal("system"))
	})

	It("deduplicates a replayed history", func() {
		_, err := transcript.AppendExchange(ctx, store, buildRequest("what is Go?"), response("a language"))
		Expect(err).NotTo(HaveOccurred())

		headAgain, err := transcript.AppendExchange(ctx, store, buildRequest("what is Go?"), response("a language"))
		Expect(err).NotTo(HaveOccurred())

		entries, err := store.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(3))

		chain, err := store.Ancestry(ctx, headAgain)
		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(3))
	})

	It("branches when the same history gets a different reply", func() {
		headA, err := transcript.AppendExchange(ctx, store, buildRequest("what is Go?"), response("a language"))
		Expect(err).NotTo(HaveOccurred())

		headB, err := transcript.AppendExchange(ctx, store, buildRequest("what is Go?"), response("a board game"))
		Expect(err).NotTo(HaveOccurred())

		Expect(headA).NotTo(Equal(headB))

		// Four entries total: the two shared request turns plus two replies.
		entries, err := store.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(4))

		leaves, err := store.Leaves(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(leaves).To(HaveLen(2))
	})

	It("stores only the request side when the reply has no choices", func() {
		resp := &chat.ChatCompletionResponse{
			ID:      "chatcmpl-empty",
			Created: 1700000000,
			Model:   chat.ModelGPT3Turbo,
			Object:  "chat.completion",
			Choices: []chat.Choice{},
		}

		head, err := transcript.AppendExchange(ctx, store, buildRequest("anyone there?"), resp)
		Expect(err).NotTo(HaveOccurred())

		chain, err := store.Ancestry(ctx, head)
		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(2))
		Expect(chain[0].Record.Role).To(Equal("user"))
	})

	It("returns an empty head for an empty conversation", func() {
		req, err := chat.NewRequestBuilder().Messages().Build()
		Expect(err).NotTo(HaveOccurred())

		head, err := transcript.AppendExchange(ctx, store, req, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(head).To(BeEmpty())
	})
})
