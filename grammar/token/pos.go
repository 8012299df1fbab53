// Package token provides the low-level lexical scanners shared by the
// interpolation grammar's parser (spec.md §4.2): escape decoding, quoted
// and balanced-delimiter scanning, and byte-offset position tracking for
// diagnostics. It is grounded on the teacher repo's token package (PosDoc,
// Pos, the *_test.go scanning style), adapted from a YAML-superset document
// lexer to a "${...}" interpolation lexer.
package token

import (
	"fmt"
	"sort"
	"strconv"
)

// PosDoc memoizes newline offsets of a source document so that Pos.LineCol
// can binary-search them instead of rescanning on every call.
type PosDoc struct {
	src  []byte
	nls  []int
	once bool
}

func NewPosDoc(src []byte) *PosDoc {
	d := &PosDoc{src: src}
	for i, c := range src {
		if c == '\n' {
			d.nls = append(d.nls, i)
		}
	}
	return d
}

func (d *PosDoc) LineCol(off int) (line, col int) {
	n := len(d.nls)
	i := sort.Search(n, func(i int) bool { return d.nls[i] >= off })
	if i == 0 {
		return 0, off
	}
	return i, off - d.nls[i-1] - 1
}

func (d *PosDoc) Pos(off int) Pos {
	return Pos{Offset: off, Doc: d}
}

// Pos names one byte offset in a document, with lazily-computed line/col.
type Pos struct {
	Offset int
	Doc    *PosDoc
}

func (p Pos) LineCol() (int, int) {
	if p.Doc == nil {
		return 0, p.Offset
	}
	return p.Doc.LineCol(p.Offset)
}

func (p Pos) String() string {
	if p.Doc == nil {
		return fmt.Sprintf("offset %d", p.Offset)
	}
	lo := max(0, p.Offset-5)
	hi := min(len(p.Doc.src), p.Offset+5)
	sample := strconv.Quote(string(p.Doc.src[lo:hi]))
	sample = sample[1 : len(sample)-1]
	line, col := p.LineCol()
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.Offset, line, col)
}
