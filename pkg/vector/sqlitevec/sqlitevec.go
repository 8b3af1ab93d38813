// Package sqlitevec provides a SQLite-backed vector Store using sqlite-vec.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
	"github.com/NimanthaSupun/localrag/pkg/vector"
)

// Store implements vector.Store using SQLite with the sqlite-vec extension.
// It keeps the whole knowledge base in a single local file (or in memory),
// so no external vector database is needed.
type Store struct {
	db         *sql.DB
	dimensions uint
	logger     *zap.Logger
}

// Config holds configuration for the sqlite-vec store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the embedding vector dimension for the collection.
	Dimensions uint
}

// NewStore creates a new SQLite vector store backed by sqlite-vec.
func NewStore(c Config, logger *zap.Logger) (*Store, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", vector.ErrConnection, err)
	}

	// A single connection serializes vec0 writes and keeps ":memory:"
	// databases from being split across pooled connections.
	db.SetMaxOpenConns(1)

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite-vec not available: %v", vector.ErrConnection, err)
	}

	logger.Info("sqlite-vec store initialized",
		zap.String("db_path", c.DBPath),
		zap.Uint("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &Store{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// EnsureCollection creates the chunk and embedding tables if absent. A
// database previously created with a different dimension fails with
// ErrDimensionMismatch.
func (s *Store) EnsureCollection(ctx context.Context) error {
	// Chunk payload table. vec0 virtual tables use integer rowids, so the
	// payload table doubles as the mapping from point IDs to rowids.
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			point_id TEXT NOT NULL UNIQUE,
			text TEXT NOT NULL,
			source_file TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL DEFAULT 0,
			total_chunks INTEGER NOT NULL DEFAULT 0,
			upload_timestamp TEXT NOT NULL DEFAULT '',
			file_type TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: creating chunks table: %v", vector.ErrStore, err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS collection_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: creating meta table: %v", vector.ErrStore, err)
	}

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM collection_meta WHERE key = 'dimensions'`,
	).Scan(&stored)
	switch err {
	case nil:
		if stored != fmt.Sprint(s.dimensions) {
			return fmt.Errorf("%w: database has dimension %s, configured %d",
				vector.ErrDimensionMismatch, stored, s.dimensions)
		}
	case sql.ErrNoRows:
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO collection_meta(key, value) VALUES ('dimensions', ?)`,
			fmt.Sprint(s.dimensions),
		); err != nil {
			return fmt.Errorf("%w: recording dimensions: %v", vector.ErrStore, err)
		}
	default:
		return fmt.Errorf("%w: reading dimensions: %v", vector.ErrStore, err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_embeddings USING vec0(embedding float[%d])`,
		s.dimensions,
	)
	if _, err := s.db.ExecContext(ctx, createVec); err != nil {
		return fmt.Errorf("%w: creating vec0 table: %v", vector.ErrStore, err)
	}

	return nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Upsert stores points. Dimensions are validated up front so a mismatched
// batch writes nothing; the insert itself runs in one transaction.
func (s *Store) Upsert(ctx context.Context, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if uint(len(p.Vector)) != s.dimensions {
			return fmt.Errorf("%w: point %s has dimension %d, collection expects %d",
				vector.ErrDimensionMismatch, p.ID, len(p.Vector), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", vector.ErrStore, err)
	}
	defer tx.Rollback()

	for _, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks(point_id, text, source_file, chunk_index, total_chunks, upload_timestamp, file_type)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(point_id) DO UPDATE SET
				text = excluded.text,
				source_file = excluded.source_file,
				chunk_index = excluded.chunk_index,
				total_chunks = excluded.total_chunks,
				upload_timestamp = excluded.upload_timestamp,
				file_type = excluded.file_type
		`, id, p.Payload.Text, p.Payload.SourceFile, p.Payload.ChunkIndex,
			p.Payload.TotalChunks, p.Payload.UploadTimestamp, p.Payload.FileType)
		if err != nil {
			return fmt.Errorf("%w: inserting chunk %s: %v", vector.ErrStore, id, err)
		}

		var rowID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT rowid FROM chunks WHERE point_id = ?`, id,
		).Scan(&rowID); err != nil {
			return fmt.Errorf("%w: resolving rowid for %s: %v", vector.ErrStore, id, err)
		}

		// vec0 does not support UPDATE; replace via DELETE + INSERT.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM chunk_embeddings WHERE rowid = ?`, rowID,
		); err != nil {
			return fmt.Errorf("%w: clearing embedding for %s: %v", vector.ErrStore, id, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_embeddings(rowid, embedding) VALUES (?, ?)`,
			rowID, serializeFloat32(p.Vector),
		); err != nil {
			return fmt.Errorf("%w: inserting embedding for %s: %v", vector.ErrStore, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", vector.ErrStore, err)
	}

	s.logger.Debug("upserted points into sqlite-vec",
		zap.Int("count", len(points)),
	)

	return nil
}

// Search returns up to topK results ordered by descending similarity.
// sqlite-vec reports distances; they are converted to similarity scores as
// 1/(1+distance) so higher still means more similar.
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.text,
			c.source_file,
			c.chunk_index,
			c.total_chunks,
			c.upload_timestamp,
			c.file_type,
			ce.distance
		FROM chunk_embeddings ce
		INNER JOIN chunks c ON c.rowid = ce.rowid
		WHERE ce.embedding MATCH ?
			AND ce.k = ?
		ORDER BY ce.distance
	`, serializeFloat32(queryVector), topK)
	if err != nil {
		return nil, fmt.Errorf("%w: querying vectors: %v", vector.ErrStore, err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var c chunker.Chunk
		var distance float64
		if err := rows.Scan(&c.Text, &c.SourceFile, &c.ChunkIndex, &c.TotalChunks,
			&c.UploadTimestamp, &c.FileType, &distance); err != nil {
			return nil, fmt.Errorf("%w: scanning result: %v", vector.ErrStore, err)
		}

		results = append(results, vector.QueryResult{
			Payload: c,
			Score:   float32(1.0 / (1.0 + distance)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating results: %v", vector.ErrStore, err)
	}

	s.logger.Debug("queried sqlite-vec",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Reset drops and recreates the empty tables.
func (s *Store) Reset(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS chunk_embeddings`,
		`DROP TABLE IF EXISTS chunks`,
		`DROP TABLE IF EXISTS collection_meta`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: resetting collection: %v", vector.ErrStore, err)
		}
	}

	return s.EnsureCollection(ctx)
}

// Count returns the number of stored points.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count)
	if err != nil {
		// A fresh database has no tables until EnsureCollection runs.
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: counting points: %v", vector.ErrStore, err)
	}
	return count, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	return nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements vector.Store
var _ vector.Store = (*Store)(nil)
