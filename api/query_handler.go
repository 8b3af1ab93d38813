package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/generate"
	"github.com/NimanthaSupun/localrag/pkg/vector"
)

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Question string `json:"question"`
}

// The streamed response is newline-delimited JSON: one sources event, then
// token events as the answer is generated, then a final done event.
type sourcesEvent struct {
	Sources []vector.QueryResult `json:"sources"`
}

type tokenEvent struct {
	Token string `json:"token"`
}

type doneEvent struct {
	Done    bool   `json:"done"`
	Partial bool   `json:"partial,omitempty"`
	Answer  string `json:"answer"`
	Error   string `json:"error,omitempty"`
}

// handleQuery handles POST /v1/query. It embeds the question, retrieves the
// top matching chunks, and streams the generated answer as NDJSON events.
// If the generation service disconnects mid-answer, the final event carries
// partial=true with whatever was received.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body: " + err.Error(),
		})
	}

	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "question is required",
		})
	}

	// The stream writer below runs after this handler returns, so the
	// generation call is scoped to a background context rather than the
	// request context. A client that stops reading surfaces as a write
	// error, which closes the stream.
	answer, err := s.svc.Query(context.Background(), req.Question)
	if err != nil {
		s.logger.Warn("query failed",
			zap.String("question", req.Question),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer answer.Stream.Close()
		s.writeQueryStream(w, answer.Sources, answer.Stream)
	})

	return nil
}

// writeQueryStream emits the NDJSON event sequence for one query.
func (s *Server) writeQueryStream(w *bufio.Writer, sources []vector.QueryResult, stream *generate.Stream) {
	enc := json.NewEncoder(w)

	if err := enc.Encode(sourcesEvent{Sources: sources}); err != nil {
		return
	}
	if err := w.Flush(); err != nil {
		return
	}

	final := doneEvent{Done: true}
	for {
		token, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A partial answer is flagged, never silently completed.
			final.Partial = errors.Is(err, generate.ErrPartialAnswer)
			final.Error = err.Error()
			break
		}

		if err := enc.Encode(tokenEvent{Token: token}); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}

	final.Answer = stream.Text()
	if err := enc.Encode(final); err != nil {
		return
	}
	w.Flush()
}
