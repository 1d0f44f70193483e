// Package scores keeps the local top-N table of manual games.
package scores

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
)

// Entry is one line of the table.
type Entry struct {
	Name  string `csv:"name"`
	Score int    `csv:"score"`
}

// Table is a top-N high-score list backed by a header-less name,score file.
type Table struct {
	path    string
	max     int
	entries []Entry
}

// Open loads the table at path. A missing file yields an empty table.
func Open(path string, maxEntries int) (*Table, error) {
	t := &Table{path: path, max: maxEntries}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening scores: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading scores: %w", err)
	}
	t.entries = entries
	t.normalize()
	return t, nil
}

// Parse reads name,score lines. Blank lines and lines whose score is not an
// integer are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, score, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(score))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: strings.TrimSpace(name), Score: n})
	}
	return entries, sc.Err()
}

// normalize sorts by score, highest first, and truncates to the table size.
// Equal scores keep their file order.
func (t *Table) normalize() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Score > t.entries[j].Score
	})
	if len(t.entries) > t.max {
		t.entries = t.entries[:t.max]
	}
}

// Entries returns the table, best first.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Qualifies reports whether score would enter the table.
func (t *Table) Qualifies(score int) bool {
	return len(t.entries) < t.max || score > t.entries[len(t.entries)-1].Score
}

// Submit records a game. An existing entry with the same name is replaced
// only by a higher score. It reports whether the score is in the table
// afterwards; the file is rewritten only when the table changed.
func (t *Table) Submit(name string, score int) (bool, error) {
	for i, e := range t.entries {
		if e.Name != name {
			continue
		}
		if score <= e.Score {
			return false, nil
		}
		t.entries[i].Score = score
		t.normalize()
		return true, t.Save()
	}

	if !t.Qualifies(score) {
		return false, nil
	}
	t.entries = append(t.entries, Entry{Name: name, Score: score})
	t.normalize()
	return true, t.Save()
}

// Save writes the table without a header line.
func (t *Table) Save() error {
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("writing scores: %w", err)
	}
	if len(t.entries) > 0 {
		if err := gocsv.MarshalWithoutHeaders(t.entries, f); err != nil {
			f.Close()
			return fmt.Errorf("writing scores: %w", err)
		}
	}
	return f.Close()
}

// NormalizeName trims a gamertag to printable characters and at most maxLen
// runes. Separators that would break the file format are dropped.
func NormalizeName(name string, maxLen int) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(name) {
		if n == maxLen {
			break
		}
		if !unicode.IsPrint(r) || r == ',' || r == '"' {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}

// FormatRank renders a table line such as "1st  ace - 42". rank is 1-based.
func FormatRank(rank int, e Entry) string {
	return fmt.Sprintf("%-4s %s - %s", humanize.Ordinal(rank), e.Name, humanize.Comma(int64(e.Score)))
}
