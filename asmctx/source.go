package asmctx

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// SourcePosition is the logical cursor of the opencode reader: the index
// of a statement within the source unit and its source line.
type SourcePosition struct {
	StatementIndex int
	Line           int
}

// CopyFrame is one active COPY expansion: which member is being replayed
// and the offset of the current statement within its body.
type CopyFrame struct {
	Member          ids.Id
	StatementOffset int
}

// Snapshot captures the opencode reader's logical cursor: position plus
// the stack of active COPY frames. Snapshots are values and may be cloned
// freely; applying a snapshot created from the current state is a no-op.
type Snapshot struct {
	Position   SourcePosition
	CopyFrames []CopyFrame
}

func (s Snapshot) Clone() Snapshot {
	c := s
	c.CopyFrames = append([]CopyFrame(nil), s.CopyFrames...)
	return c
}

func (s Snapshot) Equal(o Snapshot) bool {
	if s.Position != o.Position || len(s.CopyFrames) != len(o.CopyFrames) {
		return false
	}
	for i := range s.CopyFrames {
		if s.CopyFrames[i] != o.CopyFrames[i] {
			return false
		}
	}
	return true
}

// Source is the mutable reader state of the current source unit.
type Source struct {
	// Position is the cursor: the index of the next opencode statement.
	Position SourcePosition
	// Current is the position of the statement being processed now.
	Current SourcePosition
	// CopyStack holds the active COPY expansions, innermost last.
	CopyStack []CopyFrame
}

// CreateSnapshot captures the current cursor including copy frames.
func (c *Context) CreateSnapshot() Snapshot {
	return Snapshot{
		Position:   c.Source.Position,
		CopyFrames: append([]CopyFrame(nil), c.Source.CopyStack...),
	}.Clone()
}

// ApplySnapshot restores a previously captured cursor.
func (c *Context) ApplySnapshot(s Snapshot) {
	c.Source.Position = s.Position
	c.Source.CopyStack = append(c.Source.CopyStack[:0], s.CopyFrames...)
}

// SequenceSymbol is a CA label. A macro sequence symbol locates a
// statement offset within a macro body; an opencode sequence symbol pins
// an absolute statement position plus the snapshot needed to rewind to it.
type SequenceSymbol struct {
	Name ids.Id

	InMacro     bool
	MacroOffset int

	Position diagnostics.TextPosition
	Stmt     SourcePosition
	Snapshot Snapshot

	Location diagnostics.Location
}

// SamePosition reports whether two opencode registrations bind the symbol
// to the identical statement position and snapshot.
func (s *SequenceSymbol) SamePosition(o *SequenceSymbol) bool {
	return s.Stmt == o.Stmt && s.Snapshot.Equal(o.Snapshot)
}
