package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/masmgr/repominer/internal/git"
)

// ErrSinkClosed is returned by writes after Close.
var ErrSinkClosed = errors.New("output sink is closed")

// CSVSink appends commit stat rows to one shared stream. It is safe for
// concurrent use; each row is written and flushed under a single lock so
// rows never interleave. After the first failed write every later write
// returns that same error.
type CSVSink struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	rows   int
	err    error
	closed bool
}

// NewCSVSink writes rows to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// OpenCSVSink creates the file at path, or uses stdout when path is "" or "-".
func OpenCSVSink(path string) (*CSVSink, error) {
	w, file, err := openOutputWriter(path)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	s := NewCSVSink(w)
	if file != nil {
		s.closer = file
	}
	return s, nil
}

// WriteRow appends one row in the order hash,timestamp,files,added,removed.
func (s *CSVSink) WriteRow(stat git.CommitStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	if s.err != nil {
		return s.err
	}

	if err := s.w.Write(stat.Fields()); err != nil {
		s.err = fmt.Errorf("write row %s: %w", stat.Hash, err)
		return s.err
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.err = fmt.Errorf("write row %s: %w", stat.Hash, err)
		return s.err
	}
	s.rows++
	return nil
}

// Rows returns the number of rows written successfully.
func (s *CSVSink) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Close flushes pending output and closes the underlying file, if the sink
// opened one.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
