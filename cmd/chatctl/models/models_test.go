package modelscmder

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatctl/pkg/chat"
)

var _ = Describe("Models Command", func() {
	It("lists every known model", func() {
		var out bytes.Buffer
		cmd := NewModelsCmd()
		cmd.SetOut(&out)

		Expect(cmd.Execute()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(len(chat.KnownModels())))
		for _, m := range chat.KnownModels() {
			Expect(out.String()).To(ContainSubstring(string(m)))
		}
	})

	It("marks the default model", func() {
		var out bytes.Buffer
		cmd := NewModelsCmd()
		cmd.SetOut(&out)

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(string(chat.DefaultModel()) + " (default)"))
	})

	It("rejects arguments", func() {
		cmd := NewModelsCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"extra"})

		Expect(cmd.Execute()).NotTo(Succeed())
	})
})
