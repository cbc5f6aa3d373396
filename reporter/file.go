package reporter

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"finbench/operation"

	"github.com/klauspost/compress/zstd"
)

// File writes one zstd compressed JSON line per operation.
type File struct {
	run      string
	mu       sync.Mutex
	file     *os.File
	zw       *zstd.Encoder
	encoder  *json.Encoder
	failures failures
}

func NewFile(run, path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{run: run, file: f, zw: zw, encoder: json.NewEncoder(zw)}, nil
}

func (s *File) Reporter(op operation.Operation) *Reporter {
	return newReporter(s.run, op, s.write)
}

func (s *File) write(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return s.failures.add(os.ErrClosed)
	}
	return s.failures.add(s.encoder.Encode(entry))
}

// Close flushes the compressed stream and returns the first write failure, if any.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return os.ErrClosed
	}
	s.encoder = nil
	err := errors.Join(s.zw.Close(), s.file.Close())
	if err != nil {
		return err
	}
	return s.failures.err()
}

// ReadFile decodes a results log written by File
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return readEntries(zr)
}

func readEntries(r io.Reader) ([]Entry, error) {
	entries := []Entry{}
	decoder := json.NewDecoder(bufio.NewReader(r))
	for {
		var entry Entry
		if err := decoder.Decode(&entry); err == io.EOF {
			return entries, nil
		} else if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}
