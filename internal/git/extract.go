package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// logFormat prints "<hash>\t<author date>\t<author name> <<author email>>\t"
// per commit; with --date=unix the date is seconds since the epoch.
const logFormat = "%H%x09%ad%x09%an <%ae>%x09"

// LogExtractor runs git log --numstat in a working copy.
type LogExtractor struct {
	Runner  Runner
	Timeout time.Duration // zero means no limit
}

// Extract returns the numstat log of every non-merge commit whose author
// does not match the filter.
func (e *LogExtractor) Extract(ctx context.Context, workdir string, filter IdentityFilter) ([]byte, error) {
	if filter.Len() == 0 {
		return nil, ErrNoIdentities
	}

	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	out, err := e.Runner.Run(ctx, workdir, logArgs()...)
	if isEmptyRepository(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history of %s: %w", workdir, err)
	}
	return dropAuthored(out, filter), nil
}

// logArgs lists every non-merge commit. git's --invert-grep only inverts
// --grep, not --author, so authors are filtered by dropAuthored instead.
func logArgs() []string {
	return []string{
		"--no-pager",
		"log",
		"--no-color",
		"--pretty=format:" + logFormat,
		"--no-merges",
		"--date=unix",
		"--numstat",
	}
}

// dropAuthored removes the commits whose header author matches filter. A
// commit spans its header and every line up to the next header.
func dropAuthored(out []byte, filter IdentityFilter) []byte {
	var kept bytes.Buffer
	kept.Grow(len(out))

	skip := false
	for _, line := range bytes.SplitAfter(out, []byte("\n")) {
		if classifyLine(string(line)).kind == lineHeader {
			skip = filter.Matches(headerAuthor(string(line)))
		}
		if !skip {
			kept.Write(line)
		}
	}
	return kept.Bytes()
}

// headerAuthor returns the "<name> <<email>>" field of a header line.
func headerAuthor(line string) string {
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), "\t", 4)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// isEmptyRepository reports whether git log failed only because the
// repository has no commits, which yields no rows rather than a failure.
func isEmptyRepository(err error) bool {
	return err != nil && errors.Is(err, ErrGitFailed) &&
		strings.Contains(err.Error(), "does not have any commits yet")
}
