// Package mockapi is a local stand-in for the chat-completions service. It
// answers every request with a canned echo completion so the client and CLI
// can be exercised without credentials or network access.
package mockapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/papercomputeco/chatctl/pkg/chat"
)

// Server is a fake chat-completions endpoint. It speaks the same wire schema
// as the real service: JSON completions, the usual error envelope, and SSE
// chunks when the request sets stream.
type Server struct {
	config Config
	logger *zap.Logger
	app    *fiber.App
	seq    atomic.Int64
}

// wireRequest is a loose read of the incoming request. The mock accepts
// anything shaped like a chat request; strictness lives in the client's
// typed model, not here.
type wireRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stream bool `json:"stream"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func apiError(message, errType string) errorResponse {
	var resp errorResponse
	resp.Error.Message = message
	resp.Error.Type = errType
	return resp
}

// New creates a mock server.
func New(config Config, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		StreamRequestBody:     true,
	})

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Post("/v1/chat/completions", s.handleChatCompletion)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting mock chat-completions server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleChatCompletion(c *fiber.Ctx) error {
	var req wireRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Error("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).
			JSON(apiError("invalid request body", "invalid_request_error"))
	}

	s.logger.Debug("received chat completion request",
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
		zap.Bool("stream", req.Stream),
	)

	if req.Stream {
		return s.streamCompletion(c, &req)
	}
	return c.JSON(s.completion(&req))
}

// completion builds the canned reply: it echoes the last message back and
// charges roughly a token per four characters.
func (s *Server) completion(req *wireRequest) *chat.ChatCompletionResponse {
	content := s.replyText(req)

	var promptChars int
	for _, m := range req.Messages {
		promptChars += len(m.Content)
	}
	promptTokens := promptChars/4 + 1
	completionTokens := len(content)/4 + 1

	model := chat.ChatModel(req.Model)
	if model == "" {
		model = chat.DefaultModel()
	}

	return &chat.ChatCompletionResponse{
		ID:                fmt.Sprintf("chatcmpl-mock-%d", s.seq.Add(1)),
		Created:           time.Now().Unix(),
		Model:             model,
		SystemFingerprint: "fp_mock",
		Object:            "chat.completion",
		Usage: chat.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		Choices: []chat.Choice{{
			FinishReason: chat.FinishReasonStop,
			Index:        0,
			Message:      chat.AssistantMessage{Content: content},
		}},
	}
}

func (s *Server) replyText(req *wireRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" && req.Messages[i].Content != "" {
			return "You said: " + req.Messages[i].Content
		}
	}
	return "Hello from mockapi."
}

// streamChunk is one SSE delta in the service's streaming shape.
type streamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

type streamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// streamCompletion writes the reply as SSE chunks, one word at a time,
// terminated by the [DONE] sentinel.
func (s *Server) streamCompletion(c *fiber.Ctx, req *wireRequest) error {
	id := fmt.Sprintf("chatcmpl-mock-%d", s.seq.Add(1))
	created := time.Now().Unix()
	model := req.Model
	if model == "" {
		model = string(chat.DefaultModel())
	}
	words := strings.SplitAfter(s.replyText(req), " ")

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		writeChunk := func(chunk streamChunk) {
			data, err := json.Marshal(chunk)
			if err != nil {
				s.logger.Error("failed to marshal chunk", zap.Error(err))
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			w.Flush()
		}

		newChunk := func() streamChunk {
			return streamChunk{
				ID:      id,
				Object:  "chat.completion.chunk",
				Created: created,
				Model:   model,
				Choices: make([]streamChoice, 1),
			}
		}

		first := newChunk()
		first.Choices[0].Delta.Role = "assistant"
		writeChunk(first)

		for _, word := range words {
			chunk := newChunk()
			chunk.Choices[0].Delta.Content = word
			writeChunk(chunk)
		}

		last := newChunk()
		reason := string(chat.FinishReasonStop)
		last.Choices[0].FinishReason = &reason
		writeChunk(last)

		fmt.Fprint(w, "data: [DONE]\n\n")
		w.Flush()
	}))

	return nil
}
