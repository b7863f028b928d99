package git

import "strconv"

// CommitStat is the aggregated change volume of a single commit.
type CommitStat struct {
	Hash         string
	Timestamp    int64 // author date, unix seconds
	FilesChanged uint64
	LinesAdded   uint64
	LinesRemoved uint64
}

// Churn returns total lines changed (added + removed).
func (c CommitStat) Churn() uint64 {
	return c.LinesAdded + c.LinesRemoved
}

// Fields returns the row values in output order:
// hash, timestamp, files changed, lines added, lines removed.
func (c CommitStat) Fields() []string {
	return []string{
		c.Hash,
		strconv.FormatInt(c.Timestamp, 10),
		strconv.FormatUint(c.FilesChanged, 10),
		strconv.FormatUint(c.LinesAdded, 10),
		strconv.FormatUint(c.LinesRemoved, 10),
	}
}

// UnknownModeError reports an unrecognized option value.
type UnknownModeError struct {
	Kind  string
	Value string
}

func (e *UnknownModeError) Error() string {
	return "unknown " + e.Kind + " " + strconv.Quote(e.Value)
}
