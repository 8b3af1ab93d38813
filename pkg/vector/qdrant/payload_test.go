package qdrant

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/qdrant/go-client/qdrant"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
)

func TestQdrantStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Qdrant Store Suite")
}

var _ = Describe("payload conversion", func() {
	It("round-trips a chunk through the stored payload form", func() {
		in := chunker.Chunk{
			Text:            "chunk body",
			SourceFile:      "doc.pdf",
			ChunkIndex:      2,
			TotalChunks:     5,
			UploadTimestamp: "2025-06-01T12:00:00Z",
			FileType:        "application/pdf",
		}

		out := chunkFromPayload(qdrant.NewValueMap(payloadMap(in)))
		Expect(out).To(Equal(in))
	})

	It("yields zero values for missing fields", func() {
		out := chunkFromPayload(map[string]*qdrant.Value{})
		Expect(out).To(Equal(chunker.Chunk{}))
	})

	It("yields zero values for mistyped fields", func() {
		payload := qdrant.NewValueMap(map[string]any{
			fieldText:       int64(42),
			fieldChunkIndex: "three",
		})

		out := chunkFromPayload(payload)
		Expect(out.Text).To(BeEmpty())
		Expect(out.ChunkIndex).To(BeZero())
	})
})

var _ = Describe("grpcEndpoint", func() {
	It("maps the REST port to its gRPC companion", func() {
		host, port, err := grpcEndpoint("http://localhost:6333")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("localhost"))
		Expect(port).To(Equal(6334))
	})

	It("honors an explicit non-default port", func() {
		host, port, err := grpcEndpoint("http://qdrant.internal:7000")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("qdrant.internal"))
		Expect(port).To(Equal(7000))
	})

	It("defaults the port when the URL has none", func() {
		_, port, err := grpcEndpoint("http://qdrant.internal")
		Expect(err).NotTo(HaveOccurred())
		Expect(port).To(Equal(6334))
	})

	It("rejects unparseable URLs", func() {
		_, _, err := grpcEndpoint("://nope")
		Expect(err).To(HaveOccurred())
	})
})
