// Package rag composes extraction, chunking, embedding, storage, and
// generation into the two end-to-end flows: ingest a document and answer a
// question grounded in retrieved chunks.
package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/embeddings"
	"github.com/NimanthaSupun/localrag/pkg/extract"
	"github.com/NimanthaSupun/localrag/pkg/generate"
	"github.com/NimanthaSupun/localrag/pkg/vector"
)

// Service owns the sequencing of the pipeline. It holds no state of its own
// beyond its collaborators; all persistence lives in the vector store.
type Service struct {
	cfg       *config.Config
	embedder  embeddings.Embedder
	store     vector.Store
	generator generate.Generator
	logger    *zap.Logger

	// now stamps chunk metadata; overridable in tests.
	now func() time.Time
}

// New creates a Service from its collaborators. The config must already be
// validated.
func New(cfg *config.Config, embedder embeddings.Embedder, store vector.Store, generator generate.Generator, logger *zap.Logger) *Service {
	return &Service{
		cfg:       cfg,
		embedder:  embedder,
		store:     store,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// File is one uploaded document.
type File struct {
	// Name is the original file name, kept as source attribution.
	Name string

	// Type is the declared MIME-like type (e.g. "application/pdf").
	// Empty means detect from the file name.
	Type string

	// Data is the raw file content.
	Data []byte
}

// IngestResult reports what one successful ingest stored.
type IngestResult struct {
	// File is the source file name.
	File string `json:"file"`

	// Chunks is the number of chunks stored.
	Chunks int `json:"chunks"`

	// NoContent is true when extraction produced no text; nothing was
	// stored and the ingest still counts as a success.
	NoContent bool `json:"no_content,omitempty"`
}

// IngestFile runs the ingest flow for a single document:
// extract, chunk, embed, ensure collection, upsert.
//
// Any stage failure aborts the remaining stages for this file. A failure
// after some points of a previous batch were stored leaves those points in
// place; partially indexed documents are a documented limitation, not a
// rollback.
func (s *Service) IngestFile(ctx context.Context, file File) (IngestResult, error) {
	result := IngestResult{File: file.Name}

	declaredType := file.Type
	if declaredType == "" {
		declaredType = extract.DetectType(file.Name)
	}

	text, err := extract.Extract(file.Data, declaredType)
	if err != nil {
		return result, fmt.Errorf("extracting %q: %w", file.Name, err)
	}

	if text == "" {
		result.NoContent = true
		s.logger.Info("no content extracted",
			zap.String("file", file.Name),
		)
		return result, nil
	}

	chunks := chunker.Split(text, s.cfg.Chunking.Size, s.cfg.Chunking.Overlap)
	if len(chunks) == 0 {
		result.NoContent = true
		return result, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return result, fmt.Errorf("embedding %q: %w", file.Name, err)
	}

	if err := s.store.EnsureCollection(ctx); err != nil {
		return result, fmt.Errorf("ensuring collection: %w", err)
	}

	timestamp := s.now().UTC().Format(time.RFC3339)
	points := make([]vector.Point, len(chunks))
	for i, c := range chunks {
		c.SourceFile = file.Name
		c.FileType = declaredType
		c.UploadTimestamp = timestamp

		points[i] = vector.Point{
			ID:      uuid.New().String(),
			Vector:  vectors[i],
			Payload: c,
		}
	}

	if err := s.store.Upsert(ctx, points); err != nil {
		return result, fmt.Errorf("storing %q: %w", file.Name, err)
	}

	result.Chunks = len(points)

	s.logger.Info("ingested document",
		zap.String("file", file.Name),
		zap.String("type", declaredType),
		zap.Int("chunks", result.Chunks),
	)

	return result, nil
}

// FileResult pairs a per-file ingest outcome with its error, if any.
type FileResult struct {
	IngestResult
	Err error
}

// IngestAll ingests a batch of files with per-file failure isolation: one
// file's error never stops the others. Results are returned in input order.
func (s *Service) IngestAll(ctx context.Context, files []File) []FileResult {
	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		res, err := s.IngestFile(ctx, file)
		if err != nil {
			s.logger.Warn("ingest failed",
				zap.String("file", file.Name),
				zap.Error(err),
			)
		}
		results = append(results, FileResult{IngestResult: res, Err: err})
	}
	return results
}

// Answer is the result of the query flow: the retrieved source chunks and
// the token stream for the generated answer. The caller drains the stream;
// a service disconnect mid-answer surfaces as generate.ErrPartialAnswer with
// the partial text preserved.
type Answer struct {
	Sources []vector.QueryResult
	Stream  *generate.Stream
}

// Query runs the answer flow: embed the question, search the store, assemble
// a prompt from the retrieved chunks in descending-score order, and start
// generation.
//
// A question with no retrieved context still produces an answer; the prompt
// tells the model to say it does not know.
func (s *Service) Query(ctx context.Context, question string) (*Answer, error) {
	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	// A question asked before anything was ingested must still get an
	// answer, so the collection is created here too, not only on ingest.
	if err := s.store.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensuring collection: %w", err)
	}

	sources, err := s.store.Search(ctx, queryVector, s.cfg.Retrieval.TopK)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	contexts := make([]string, len(sources))
	for i, src := range sources {
		contexts[i] = src.Payload.Text
	}

	stream, err := s.generator.Generate(ctx, BuildPrompt(question, contexts))
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	s.logger.Debug("query started",
		zap.String("question", question),
		zap.Int("sources", len(sources)),
	)

	return &Answer{Sources: sources, Stream: stream}, nil
}

// Reset deletes all stored documents by recreating the collection.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("resetting collection: %w", err)
	}

	s.logger.Info("collection reset")
	return nil
}

// Close releases the embedder, store, and generator. The first error wins;
// the remaining components are still closed.
func (s *Service) Close() error {
	errs := []error{
		s.embedder.Close(),
		s.store.Close(),
		s.generator.Close(),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
