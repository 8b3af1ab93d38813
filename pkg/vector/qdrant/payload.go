package qdrant

import (
	"github.com/qdrant/go-client/qdrant"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
)

// Payload field names as stored in Qdrant.
const (
	fieldText            = "text"
	fieldSourceFile      = "source_file"
	fieldChunkIndex      = "chunk_index"
	fieldTotalChunks     = "total_chunks"
	fieldUploadTimestamp = "upload_timestamp"
	fieldFileType        = "file_type"
)

// payloadMap converts a chunk into the map form qdrant.NewValueMap accepts.
func payloadMap(c chunker.Chunk) map[string]any {
	return map[string]any{
		fieldText:            c.Text,
		fieldSourceFile:      c.SourceFile,
		fieldChunkIndex:      int64(c.ChunkIndex),
		fieldTotalChunks:     int64(c.TotalChunks),
		fieldUploadTimestamp: c.UploadTimestamp,
		fieldFileType:        c.FileType,
	}
}

// chunkFromPayload rebuilds a chunk from a stored point's payload. Missing or
// mistyped fields yield zero values rather than errors; the store is the
// source of truth and older points may predate schema additions.
func chunkFromPayload(payload map[string]*qdrant.Value) chunker.Chunk {
	return chunker.Chunk{
		Text:            payload[fieldText].GetStringValue(),
		SourceFile:      payload[fieldSourceFile].GetStringValue(),
		ChunkIndex:      int(payload[fieldChunkIndex].GetIntegerValue()),
		TotalChunks:     int(payload[fieldTotalChunks].GetIntegerValue()),
		UploadTimestamp: payload[fieldUploadTimestamp].GetStringValue(),
		FileType:        payload[fieldFileType].GetStringValue(),
	}
}
