package git

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// genCount yields either a numstat count or a token that is not one.
func genCount() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Map(rapid.Uint32Range(0, 100000), func(n uint32) string { return fmt.Sprint(n) }),
		rapid.SampledFrom([]string{"-", "x", "1e3", "-5", "0x10"}),
	)
}

func genHash() *rapid.Generator[string] {
	return rapid.StringMatching(`[0-9a-f]{40}`)
}

func TestRapidParseNumstat_RoundTripsGeneratedLog(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		commits := rapid.IntRange(0, 20).Draw(t, "commits")

		var sb strings.Builder
		want := make([]CommitStat, 0, commits)
		for c := 0; c < commits; c++ {
			stat := CommitStat{
				Hash:      genHash().Draw(t, "hash"),
				Timestamp: rapid.Int64Range(0, 4102444800).Draw(t, "ts"),
			}
			fmt.Fprintf(&sb, "%s\t%d\t\n", stat.Hash, stat.Timestamp)

			files := rapid.IntRange(0, 10).Draw(t, "files")
			for f := 0; f < files; f++ {
				added := genCount().Draw(t, "added")
				removed := genCount().Draw(t, "removed")
				fmt.Fprintf(&sb, "%s\t%s\tdir/file %d.txt\n", added, removed, f)

				stat.FilesChanged++
				stat.LinesAdded += parseCount(added)
				stat.LinesRemoved += parseCount(removed)
			}
			if rapid.Bool().Draw(t, "separator") {
				sb.WriteString("\n")
			}
			want = append(want, stat)
		}

		got, err := ParseNumstatBytes([]byte(sb.String()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d rows, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("row %d = %#v, want %#v", i, got[i], want[i])
			}
		}
	})
}

func TestRapidParseNumstat_ArbitraryInputNeverFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")

		got, err := ParseNumstatBytes([]byte(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range got {
			if !isHash(s.Hash) {
				t.Fatalf("row with hash %q that is not 40 hex digits", s.Hash)
			}
		}
	})
}
