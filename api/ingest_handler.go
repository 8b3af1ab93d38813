package api

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/extract"
	"github.com/NimanthaSupun/localrag/pkg/rag"
)

// IngestResponse reports the per-file outcomes of a multi-file upload.
type IngestResponse struct {
	Results     []IngestFileResult `json:"results"`
	TotalChunks int                `json:"total_chunks"`
}

// IngestFileResult is one file's ingest outcome. Error is set when that
// file's ingest failed; other files are unaffected.
type IngestFileResult struct {
	File      string `json:"file"`
	Chunks    int    `json:"chunks"`
	NoContent bool   `json:"no_content,omitempty"`
	Error     string `json:"error,omitempty"`
}

// declaredType normalizes an upload's Content-Type header. Only types with
// an extractor are honored; anything else (e.g. application/octet-stream)
// falls back to file name detection.
func declaredType(header string) string {
	if i := strings.Index(header, ";"); i >= 0 {
		header = header[:i]
	}
	header = strings.TrimSpace(header)

	switch header {
	case extract.TypePDF, extract.TypeText:
		return header
	default:
		return ""
	}
}

// handleIngest handles POST /v1/documents. It accepts a multipart form with
// one or more files under the "files" field and ingests each independently.
// The response is 200 when at least one file succeeded and 500 only when
// every file failed.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "expected multipart form upload",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "at least one file is required under the \"files\" field",
		})
	}

	files := make([]rag.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "reading upload " + header.Filename + ": " + err.Error(),
			})
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "reading upload " + header.Filename + ": " + err.Error(),
			})
		}

		files = append(files, rag.File{
			Name: header.Filename,
			Type: declaredType(header.Header.Get("Content-Type")),
			Data: data,
		})
	}

	results := s.svc.IngestAll(c.Context(), files)

	resp := IngestResponse{Results: make([]IngestFileResult, 0, len(results))}
	failures := 0
	for _, res := range results {
		item := IngestFileResult{
			File:      res.File,
			Chunks:    res.Chunks,
			NoContent: res.NoContent,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
			failures++
		}
		resp.TotalChunks += res.Chunks
		resp.Results = append(resp.Results, item)
	}

	s.logger.Info("ingest request",
		zap.Int("files", len(files)),
		zap.Int("failures", failures),
		zap.Int("chunks", resp.TotalChunks),
	)

	if failures == len(results) {
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.JSON(resp)
}
