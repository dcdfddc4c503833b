package transcript_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatctl/pkg/transcript"
)

var _ = Describe("MemoryStore", func() {
	var (
		store *transcript.MemoryStore
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = transcript.NewMemoryStore()
	})

	record := func(role, content string) transcript.Record {
		return transcript.Record{Role: role, Content: content}
	}

	Describe("Put and Get", func() {
		It("stores and retrieves an entry", func() {
			entry := transcript.NewEntry(record("user", "hello"), nil)

			Expect(store.Put(ctx, entry)).To(Succeed())

			got, err := store.Get(ctx, entry.Hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Hash).To(Equal(entry.Hash))
			Expect(got.Record).To(Equal(entry.Record))
		})

		It("is a no-op for an existing hash", func() {
			entry := transcript.NewEntry(record("user", "hello"), nil)

			Expect(store.Put(ctx, entry)).To(Succeed())
			Expect(store.Put(ctx, entry)).To(Succeed())

			entries, err := store.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("returns ErrNotFound for a missing hash", func() {
			_, err := store.Get(ctx, "no-such-hash")
			Expect(err).To(MatchError(transcript.ErrNotFound{Hash: "no-such-hash"}))
		})
	})

	Describe("Has", func() {
		It("reports existence", func() {
			entry := transcript.NewEntry(record("user", "hello"), nil)
			Expect(store.Put(ctx, entry)).To(Succeed())

			Expect(store.Has(ctx, entry.Hash)).To(BeTrue())
			Expect(store.Has(ctx, "missing")).To(BeFalse())
		})
	})

	Describe("Roots and Leaves", func() {
		It("identifies conversation starts and heads", func() {
			root := transcript.NewEntry(record("user", "q"), nil)
			head := transcript.NewEntry(record("assistant", "a"), root)

			Expect(store.Put(ctx, root)).To(Succeed())
			Expect(store.Put(ctx, head)).To(Succeed())

			roots, err := store.Roots(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(roots).To(HaveLen(1))
			Expect(roots[0].Hash).To(Equal(root.Hash))

			leaves, err := store.Leaves(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(1))
			Expect(leaves[0].Hash).To(Equal(head.Hash))
		})

		It("reports both heads when a conversation branches", func() {
			root := transcript.NewEntry(record("user", "q"), nil)
			replyA := transcript.NewEntry(record("assistant", "first answer"), root)
			replyB := transcript.NewEntry(record("assistant", "second answer"), root)

			Expect(store.Put(ctx, root)).To(Succeed())
			Expect(store.Put(ctx, replyA)).To(Succeed())
			Expect(store.Put(ctx, replyB)).To(Succeed())

			leaves, err := store.Leaves(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(2))
		})
	})

	Describe("Ancestry", func() {
		It("walks from an entry back to its root", func() {
			root := transcript.NewEntry(record("system", "be brief"), nil)
			mid := transcript.NewEntry(record("user", "q"), root)
			head := transcript.NewEntry(record("assistant", "a"), mid)

			for _, e := range []*transcript.Entry{root, mid, head} {
				Expect(store.Put(ctx, e)).To(Succeed())
			}

			chain, err := store.Ancestry(ctx, head.Hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(chain).To(HaveLen(3))
			Expect(chain[0].Hash).To(Equal(head.Hash))
			Expect(chain[2].Hash).To(Equal(root.Hash))
		})

		It("fails on an unknown hash", func() {
			_, err := store.Ancestry(ctx, "missing")
			Expect(err).To(HaveOccurred())
		})
	})
})
