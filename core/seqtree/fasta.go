package seqtree

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/FocuswithJustin/seqmod/core/errors"
)

// LineWidth is the residue line length used by Write.
const LineWidth = 70

const maxLine = 16 * 1024 * 1024

// ReadFile reads a FASTA file.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	return read(f, path)
}

// Read parses FASTA text. A header followed directly by a line holding
// only "[" opens a segmented set; the records up to the matching "]" line
// are its segments.
//
//	>set1 [organism=Influenza A virus]
//	[
//	>seg1 [segment=1]
//	ACGT
//	]
func Read(r io.Reader) (*Tree, error) {
	return read(r, "")
}

func read(r io.Reader, path string) (*Tree, error) {
	var (
		tree    Tree
		current *Record // record receiving residue lines
		set     *Record // open segmented set
		pending *Record // header seen, no residues yet
		residue strings.Builder
		lineNo  int
	)

	flush := func() {
		if current != nil {
			current.residues = residue.String()
		}
		residue.Reset()
		current = nil
	}
	fail := func(msg string) error {
		return errors.NewParse("FASTA", path, lineNo, msg)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, ";"):
			continue

		case strings.HasPrefix(line, ">"):
			flush()
			id, title := splitHeader(line[1:])
			rec := NewRecord(id, title, "")
			if set != nil {
				set.segments = append(set.segments, rec)
			} else {
				tree.records = append(tree.records, rec)
			}
			current, pending = rec, rec

		case trimmed == "[":
			if set != nil {
				return nil, fail("segmented sets cannot nest")
			}
			if pending == nil {
				return nil, fail("segmented set has no header")
			}
			set = pending
			set.segments = []*Record{}
			current, pending = nil, nil

		case trimmed == "]":
			if set == nil {
				return nil, fail("unexpected end of segmented set")
			}
			flush()
			set, pending = nil, nil

		default:
			if current == nil {
				return nil, fail("residues before first header")
			}
			pending = nil
			residue.WriteString(strings.Join(strings.Fields(line), ""))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if set != nil {
		return nil, fail("segmented set " + set.id + " is not closed")
	}
	flush()
	return &tree, nil
}

// splitHeader separates the identifier (up to the first whitespace) from
// the title.
func splitHeader(h string) (string, string) {
	h = strings.TrimSpace(h)
	i := strings.IndexAny(h, " \t")
	if i < 0 {
		return h, ""
	}
	return h[:i], strings.TrimLeft(h[i:], " \t")
}

// Write renders t as FASTA, wrapping residues at LineWidth.
func Write(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	for _, r := range t.records {
		writeRecord(bw, r)
		if r.IsSegmentedSet() {
			bw.WriteString("[\n")
			for _, seg := range r.segments {
				writeRecord(bw, seg)
			}
			bw.WriteString("]\n")
		}
	}
	return bw.Flush()
}

func writeRecord(bw *bufio.Writer, r *Record) {
	bw.WriteByte('>')
	bw.WriteString(r.id)
	if r.title != "" {
		bw.WriteByte(' ')
		bw.WriteString(r.title)
	}
	bw.WriteByte('\n')
	for s := r.residues; s != ""; {
		n := min(LineWidth, len(s))
		bw.WriteString(s[:n])
		bw.WriteByte('\n')
		s = s[n:]
	}
}
