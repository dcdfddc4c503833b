package completecmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatctl/pkg/transcript"
)

var _ = Describe("Complete Command", func() {
	var (
		ctx        context.Context
		tmpDir     string
		configPath string
		dbPath     string
		server     *httptest.Server
		lastBody   map[string]any
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		tmpDir, err = os.MkdirTemp("", "chatctl-complete-test-*")
		Expect(err).NotTo(HaveOccurred())
		configPath = filepath.Join(tmpDir, "config.toml")
		dbPath = filepath.Join(tmpDir, "history.db")
		lastBody = nil

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer r.Body.Close()
			Expect(json.NewDecoder(r.Body).Decode(&lastBody)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"id": "chatcmpl-test",
				"object": "chat.completion",
				"created": 1700000000,
				"model": "gpt-3.5-turbo-1106",
				"choices": [{
					"finish_reason": "stop",
					"index": 0,
					"message": {"content": "The reply.", "role": "assistant"}
				}],
				"usage": {"completion_tokens": 3, "prompt_tokens": 5, "total_tokens": 8}
			}`)
		}))

		body := fmt.Sprintf("base_url = %q\napi_key = \"sk-test\"\n", server.URL)
		Expect(os.WriteFile(configPath, []byte(body), 0o600)).To(Succeed())
	})

	AfterEach(func() {
		server.Close()
		os.RemoveAll(tmpDir)
	})

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := NewCompleteCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--config", configPath, "--history-db", dbPath}, args...))
		err := cmd.ExecuteContext(ctx)
		return out.String(), err
	}

	It("prints the assistant reply", func() {
		out, err := run("hello", "there")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("The reply."))

		msgs := lastBody["messages"].([]any)
		Expect(msgs).To(HaveLen(1))
		user := msgs[0].(map[string]any)
		Expect(user["role"]).To(Equal("user"))
		Expect(user["content"]).To(Equal("hello there"))
	})

	It("prepends the system message", func() {
		_, err := run("--system", "Be brief.", "hello")
		Expect(err).NotTo(HaveOccurred())

		msgs := lastBody["messages"].([]any)
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].(map[string]any)["role"]).To(Equal("system"))
		Expect(msgs[0].(map[string]any)["content"]).To(Equal("Be brief."))
	})

	It("reads the prompt from stdin", func() {
		var out bytes.Buffer
		cmd := NewCompleteCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetIn(strings.NewReader("piped prompt\n"))
		cmd.SetArgs([]string{"--config", configPath, "--history-db", dbPath})

		Expect(cmd.ExecuteContext(ctx)).To(Succeed())
		Expect(lastBody["messages"].([]any)[0].(map[string]any)["content"]).To(Equal("piped prompt"))
	})

	It("rejects an unknown model before sending anything", func() {
		_, err := run("--model", "gpt-99", "hello")
		Expect(err).To(MatchError(ContainSubstring("unknown model")))
		Expect(lastBody).To(BeNil())
	})

	It("sends temperature only when the flag is set", func() {
		_, err := run("hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(lastBody).NotTo(HaveKey("temperature"))

		_, err = run("--temperature", "0", "hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(lastBody).To(HaveKeyWithValue("temperature", 0.0))
	})

	It("emits debug logs when the config enables debug", func() {
		body := fmt.Sprintf("base_url = %q\ndebug = true\n", server.URL)
		Expect(os.WriteFile(configPath, []byte(body), 0o600)).To(Succeed())

		// The logger writes to stderr; swap it for a pipe around the run.
		r, w, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		orig := os.Stderr
		os.Stderr = w

		_, runErr := run("hello")

		os.Stderr = orig
		w.Close()
		logged, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(runErr).NotTo(HaveOccurred())
		Expect(string(logged)).To(ContainSubstring("sending chat completion"))
	})

	It("suppresses debug logs by default", func() {
		r, w, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		orig := os.Stderr
		os.Stderr = w

		_, runErr := run("hello")

		os.Stderr = orig
		w.Close()
		logged, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(runErr).NotTo(HaveOccurred())
		Expect(string(logged)).NotTo(ContainSubstring("sending chat completion"))
	})

	It("records the exchange in the history database", func() {
		_, err := run("remember me")
		Expect(err).NotTo(HaveOccurred())

		store, err := transcript.NewSQLiteStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		entries, err := store.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
	})

	It("skips recording with --no-history", func() {
		_, err := run("--no-history", "forget me")
		Expect(err).NotTo(HaveOccurred())

		_, err = os.Stat(dbPath)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
