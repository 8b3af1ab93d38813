package generate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Chunk is a single parsed event from a generation stream.
type Chunk struct {
	// Token is the text fragment carried by this event. May be empty on
	// the terminating event.
	Token string

	// Done reports whether this is the end-of-stream marker.
	Done bool
}

// Decoder parses a provider's wire format into Chunks. Implementations are
// supplied by the provider subpackages.
type Decoder interface {
	// Decode returns the next chunk. It returns io.EOF when the underlying
	// source is exhausted.
	Decode() (Chunk, error)
}

// Stream is a pull-based token producer over a generation response. The
// consumer calls Recv until io.EOF (normal completion) or an error. A stream
// whose connection drops before the end-of-stream marker yields
// ErrPartialAnswer; everything received up to that point stays available via
// Text.
type Stream struct {
	decoder Decoder
	closer  io.Closer

	text     strings.Builder
	finished bool
	err      error
}

// NewStream wraps a decoder and its underlying closer into a Stream.
func NewStream(decoder Decoder, closer io.Closer) *Stream {
	return &Stream{decoder: decoder, closer: closer}
}

// Recv returns the next token. It returns io.EOF after the end-of-stream
// marker, and an error wrapping ErrPartialAnswer if the source terminates
// early. Recv never returns an empty token with a nil error.
func (s *Stream) Recv() (string, error) {
	if s.finished {
		return "", io.EOF
	}
	if s.err != nil {
		return "", s.err
	}

	for {
		chunk, err := s.decoder.Decode()
		if err == io.EOF {
			// Source exhausted without a done marker.
			s.err = fmt.Errorf("%w: stream closed after %d characters", ErrPartialAnswer, s.text.Len())
			return "", s.err
		}
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrPartialAnswer, err)
			return "", s.err
		}

		if chunk.Done {
			s.finished = true
			if chunk.Token != "" {
				s.text.WriteString(chunk.Token)
				return chunk.Token, nil
			}
			return "", io.EOF
		}

		if chunk.Token == "" {
			continue
		}

		s.text.WriteString(chunk.Token)
		return chunk.Token, nil
	}
}

// Text returns everything received so far, including partial output from a
// stream that ended early.
func (s *Stream) Text() string {
	return s.text.String()
}

// Close releases the underlying connection. Dropping a stream without
// draining it is the cancellation mechanism; no other cleanup is required.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Collect drains the stream to completion and returns the full answer.
// A partial answer is returned together with the ErrPartialAnswer error.
func (s *Stream) Collect() (string, error) {
	for {
		_, err := s.Recv()
		if err == io.EOF {
			return s.Text(), nil
		}
		if err != nil {
			return s.Text(), err
		}
	}
}

// LineDecoder is a helper for newline-delimited JSON wire formats. Provider
// packages wrap it with their own unmarshaling.
type LineDecoder struct {
	scanner *bufio.Scanner
}

func NewLineDecoder(r io.Reader) *LineDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &LineDecoder{scanner: scanner}
}

// Next returns the next non-empty line, or io.EOF.
func (d *LineDecoder) Next() ([]byte, error) {
	for d.scanner.Scan() {
		line := d.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
