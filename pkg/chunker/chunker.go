// Package chunker splits extracted document text into overlapping windows.
package chunker

import "strings"

// Chunk is a bounded contiguous slice of a document's text together with the
// metadata stored alongside its embedding. The JSON field names are the
// stored payload schema.
type Chunk struct {
	Text            string `json:"text"`
	SourceFile      string `json:"source_file"`
	ChunkIndex      int    `json:"chunk_index"`
	TotalChunks     int    `json:"total_chunks"`
	UploadTimestamp string `json:"upload_timestamp"`
	FileType        string `json:"file_type"`
}

// Split cuts text into overlapping windows of at most size characters,
// stepping by size-overlap. ChunkIndex and TotalChunks are filled from the
// actually emitted chunks; the caller stamps source metadata afterwards.
//
// Empty text yields no chunks. Text shorter than size yields exactly one
// chunk equal to the whole text. Windows that are empty after trimming are
// skipped. Split is deterministic: the same inputs always produce the same
// output.
//
// overlap >= size is a configuration error rejected at startup; Split clamps
// it to size-1 so a miswired caller still terminates.
func Split(text string, size, overlap int) []Chunk {
	if text == "" || size <= 0 {
		return nil
	}

	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)
	step := size - overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, Chunk{Text: window})
		}

		if end == len(runes) {
			break
		}
	}

	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks
}
