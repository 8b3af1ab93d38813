package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimanthaSupun/localrag/pkg/embeddings"
	"github.com/NimanthaSupun/localrag/pkg/embeddings/ollama"
)

func TestOllamaEmbedder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var (
		server   *httptest.Server
		ctx      context.Context
		requests []map[string]any
	)

	newEmbedder := func(respond func(w http.ResponseWriter, r *http.Request)) *ollama.Embedder {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/embed" {
				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				requests = append(requests, body)
			}
			respond(w, r)
		}))
		DeferCleanup(server.Close)

		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: server.URL,
			Model:   "test-embed",
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
	})

	Describe("Embed", func() {
		It("returns the vector for a single input", func() {
			e := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"embeddings": [][]float32{{0.1, 0.2, 0.3}},
				})
			})

			vec, err := e.Embed(ctx, "hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(vec).To(Equal([]float32{0.1, 0.2, 0.3}))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0]["model"]).To(Equal("test-embed"))
			Expect(requests[0]["input"]).To(Equal("hello"))
		})

		It("wraps service errors in ErrEmbedding", func() {
			e := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			})

			_, err := e.Embed(ctx, "hello")
			Expect(err).To(MatchError(embeddings.ErrEmbedding))
			Expect(err.Error()).To(ContainSubstring("model not found"))
		})

		It("fails when the service returns no embeddings", func() {
			e := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{}})
			})

			_, err := e.Embed(ctx, "hello")
			Expect(err).To(MatchError(embeddings.ErrEmbedding))
		})
	})

	Describe("EmbedBatch", func() {
		It("sends all texts in one call and keeps input order", func() {
			e := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"embeddings": [][]float32{{1}, {2}, {3}},
				})
			})

			vecs, err := e.EmbedBatch(ctx, []string{"a", "b", "c"})
			Expect(err).NotTo(HaveOccurred())
			Expect(vecs).To(Equal([][]float32{{1}, {2}, {3}}))
			Expect(requests).To(HaveLen(1))
			Expect(requests[0]["input"]).To(Equal([]any{"a", "b", "c"}))
		})

		It("rejects a response that is not aligned with the input", func() {
			e := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"embeddings": [][]float32{{1}},
				})
			})

			_, err := e.EmbedBatch(ctx, []string{"a", "b"})
			Expect(err).To(MatchError(embeddings.ErrEmbedding))
		})

		It("returns nothing for an empty batch without calling the service", func() {
			e := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
				Fail("unexpected request")
			})

			vecs, err := e.EmbedBatch(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(vecs).To(BeNil())
		})
	})

	Describe("Ping", func() {
		It("succeeds when the tags endpoint answers", func() {
			e := newEmbedder(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/tags"))
				w.WriteHeader(http.StatusOK)
			})

			Expect(e.Ping(ctx)).To(Succeed())
		})

		It("fails when the service is unreachable", func() {
			e, err := ollama.NewEmbedder(ollama.EmbedderConfig{
				BaseURL: "http://127.0.0.1:1",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(e.Ping(ctx)).To(MatchError(embeddings.ErrEmbedding))
		})
	})
})
