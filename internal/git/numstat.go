package git

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
)

// maxLogLineSize keeps bufio.Scanner from failing on very long paths.
const maxLogLineSize = 10 * 1024 * 1024

// hashLength is the length of a hex SHA-1 commit hash.
const hashLength = 40

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeader
	lineFileChange
	lineUnknown
)

func (k lineKind) String() string {
	switch k {
	case lineBlank:
		return "blank"
	case lineHeader:
		return "header"
	case lineFileChange:
		return "file-change"
	default:
		return "unknown"
	}
}

// logLine is one classified line of "git log --numstat" output. Only the
// fields belonging to its kind are set.
type logLine struct {
	kind lineKind

	// header
	hash      string
	timestamp int64

	// file change
	added   uint64
	removed uint64
}

// classifyLine decides the shape of a raw log line. It never fails: values
// that do not parse become zero.
func classifyLine(raw string) logLine {
	fields := make([]string, 0, 3)
	for _, f := range strings.Fields(raw) {
		// Formats written as --pretty=format:"%H..." keep their quotes.
		if f = strings.Trim(f, `"`); f != "" {
			fields = append(fields, f)
		}
	}

	switch {
	case len(fields) == 0:
		return logLine{kind: lineBlank}
	case isHash(fields[0]):
		l := logLine{kind: lineHeader, hash: fields[0]}
		if len(fields) > 1 {
			l.timestamp = parseTimestamp(fields[1])
		}
		return l
	case len(fields) >= 2:
		return logLine{
			kind:    lineFileChange,
			added:   parseCount(fields[0]),
			removed: parseCount(fields[1]),
		}
	default:
		return logLine{kind: lineUnknown}
	}
}

// isHash reports whether s is a full hex commit hash.
func isHash(s string) bool {
	if len(s) != hashLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// parseCount reads a numstat count. Binary files report "-", which counts
// as zero like any other unparseable value.
func parseCount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseTimestamp(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

type parserState int

const (
	stateIdle parserState = iota
	stateInCommit
)

// StatParser turns "git log --numstat" lines into CommitStat values.
// Feed lines in order and call Close at end of input.
type StatParser struct {
	state   parserState
	current CommitStat
	emit    func(CommitStat) error
}

// NewStatParser creates a parser that passes each finished commit to emit.
// An error from emit is returned from the Feed or Close call that caused it.
func NewStatParser(emit func(CommitStat) error) *StatParser {
	return &StatParser{emit: emit}
}

// Feed consumes one line (without its trailing newline).
func (p *StatParser) Feed(raw string) error {
	l := classifyLine(raw)

	switch l.kind {
	case lineHeader:
		if err := p.flush(); err != nil {
			return err
		}
		p.current = CommitStat{Hash: l.hash, Timestamp: l.timestamp}
		p.state = stateInCommit
	case lineFileChange:
		if p.state != stateInCommit {
			return nil
		}
		p.current.FilesChanged++
		p.current.LinesAdded += l.added
		p.current.LinesRemoved += l.removed
	case lineBlank, lineUnknown:
		// Commit boundaries are closed by the next header or by Close.
	}
	return nil
}

// Close flushes the commit in progress, if any.
func (p *StatParser) Close() error {
	return p.flush()
}

func (p *StatParser) flush() error {
	if p.state != stateInCommit {
		return nil
	}
	stat := p.current
	p.current = CommitStat{}
	p.state = stateIdle
	return p.emit(stat)
}

// ParseNumstat reads log output from r and calls emit once per commit, in
// the order the commits appear.
func ParseNumstat(r io.Reader, emit func(CommitStat) error) error {
	p := NewStatParser(emit)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineSize)
	for scanner.Scan() {
		if err := p.Feed(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return p.Close()
}

// ParseNumstatBytes parses a captured log blob and returns its commits.
// The only possible error is a line longer than the scanner limit; commits
// parsed before it are still returned.
func ParseNumstatBytes(out []byte) ([]CommitStat, error) {
	var stats []CommitStat
	err := ParseNumstat(bytes.NewReader(out), func(s CommitStat) error {
		stats = append(stats, s)
		return nil
	})
	return stats, err
}
