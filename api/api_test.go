package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	"github.com/NimanthaSupun/localrag/pkg/rag"
	testutils "github.com/NimanthaSupun/localrag/pkg/utils/test"
	"github.com/NimanthaSupun/localrag/pkg/vector"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("Server", func() {
	var (
		server    *Server
		embedder  *testutils.MockEmbedder
		store     *testutils.MockStore
		generator *testutils.MockGenerator
	)

	BeforeEach(func() {
		cfg := config.NewDefaultConfig()
		cfg.Embedding.Dimensions = 3

		embedder = testutils.NewMockEmbedder()
		store = testutils.NewMockStore(3)
		generator = &testutils.MockGenerator{Tokens: []string{"An ", "answer."}}

		svc := rag.New(cfg, embedder, store, generator, logger.Nop())
		server = NewServer(Config{ListenAddr: ":0"}, svc, logger.Nop())
	})

	multipartBody := func(files map[string]string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for name, content := range files {
			part, err := writer.CreateFormFile("files", name)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte(content))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(writer.Close()).To(Succeed())
		return &buf, writer.FormDataContentType()
	}

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req, _ := http.NewRequest(http.MethodGet, "/ping", nil)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, _ := io.ReadAll(resp.Body)
			Expect(strings.TrimSpace(string(body))).To(Equal(`"pong"`))
		})
	})

	Describe("GET /v1/status", func() {
		It("reports connectivity and configuration", func() {
			req, _ := http.NewRequest(http.MethodGet, "/v1/status", nil)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var status rag.Status
			Expect(json.NewDecoder(resp.Body).Decode(&status)).To(Succeed())
			Expect(status.OllamaOK).To(BeTrue())
			Expect(status.StoreOK).To(BeTrue())
			Expect(status.Config).NotTo(BeEmpty())
		})
	})

	Describe("POST /v1/documents", func() {
		It("ingests uploaded files and reports per-file chunk counts", func() {
			body, contentType := multipartBody(map[string]string{
				"doc.txt": "some document content",
			})

			req, _ := http.NewRequest(http.MethodPost, "/v1/documents", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result IngestResponse
			Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
			Expect(result.Results).To(HaveLen(1))
			Expect(result.Results[0].File).To(Equal("doc.txt"))
			Expect(result.Results[0].Chunks).To(Equal(1))
			Expect(result.TotalChunks).To(Equal(1))

			Expect(store.Points).To(HaveLen(1))
		})

		It("isolates failures and still returns 200 when one file succeeds", func() {
			body, contentType := multipartBody(map[string]string{
				"good.txt": "fine content",
				"bad.png":  "not a document",
			})

			req, _ := http.NewRequest(http.MethodPost, "/v1/documents", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result IngestResponse
			Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
			Expect(result.Results).To(HaveLen(2))

			byName := map[string]IngestFileResult{}
			for _, r := range result.Results {
				byName[r.File] = r
			}
			Expect(byName["good.txt"].Error).To(BeEmpty())
			Expect(byName["bad.png"].Error).NotTo(BeEmpty())
		})

		It("returns 500 when every file fails", func() {
			body, contentType := multipartBody(map[string]string{
				"bad.png": "not a document",
			})

			req, _ := http.NewRequest(http.MethodPost, "/v1/documents", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})

		It("rejects non-multipart requests", func() {
			req, _ := http.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects an upload with no files field", func() {
			body, contentType := multipartBody(nil)

			req, _ := http.NewRequest(http.MethodPost, "/v1/documents", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("POST /v1/query", func() {
		queryEvents := func(resp *http.Response) []map[string]any {
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			var events []map[string]any
			for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
				if line == "" {
					continue
				}
				var event map[string]any
				Expect(json.Unmarshal([]byte(line), &event)).To(Succeed())
				events = append(events, event)
			}
			return events
		}

		BeforeEach(func() {
			store.Results = []vector.QueryResult{
				{Payload: chunker.Chunk{Text: "relevant context", SourceFile: "a.txt"}, Score: 0.9},
			}
		})

		It("streams sources, tokens, and a final done event", func() {
			req, _ := http.NewRequest(http.MethodPost, "/v1/query",
				strings.NewReader(`{"question":"what?"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/x-ndjson"))

			events := queryEvents(resp)
			Expect(len(events)).To(BeNumerically(">=", 3))

			Expect(events[0]).To(HaveKey("sources"))

			final := events[len(events)-1]
			Expect(final["done"]).To(Equal(true))
			Expect(final["answer"]).To(Equal("An answer."))
			Expect(final).NotTo(HaveKey("partial"))

			var tokens string
			for _, e := range events[1 : len(events)-1] {
				tokens += e["token"].(string)
			}
			Expect(tokens).To(Equal("An answer."))
		})

		It("marks a dropped generation as partial in the final event", func() {
			generator.Tokens = []string{"cut ", "off ", "here"}
			generator.CutAfter = 2

			req, _ := http.NewRequest(http.MethodPost, "/v1/query",
				strings.NewReader(`{"question":"what?"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			events := queryEvents(resp)
			final := events[len(events)-1]
			Expect(final["done"]).To(Equal(true))
			Expect(final["partial"]).To(Equal(true))
			Expect(final["answer"]).To(Equal("cut off "))
		})

		It("rejects an empty question", func() {
			req, _ := http.NewRequest(http.MethodPost, "/v1/query",
				strings.NewReader(`{"question":""}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 500 when the query pipeline fails", func() {
			embedder.FailOn = "doomed"

			req, _ := http.NewRequest(http.MethodPost, "/v1/query",
				strings.NewReader(`{"question":"doomed"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})

	Describe("DELETE /v1/documents", func() {
		It("resets the collection", func() {
			req, _ := http.NewRequest(http.MethodDelete, "/v1/documents", nil)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(store.ResetCalls).To(Equal(1))
		})
	})
})
