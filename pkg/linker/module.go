package linker

// RelocState tracks a module through relocation.
type RelocState uint8

const (
	StateNotStarted RelocState = iota
	StateSizing
	StatePatching
	StateDone
	StateFailed
)

func (s RelocState) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateSizing:
		return "sizing"
	case StatePatching:
		return "patching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Module is a loadable module: its segments, its resolved symbol table and
// the global pointer table built by Relocate.
type Module struct {
	Name     string
	Segments []*Segment

	// Symtab holds ELF64 symbol records whose st_value is already the
	// resolved address. It is owned by the caller.
	Symtab []byte

	// Allocator provides the global pointer table. Nil means the Go heap.
	Allocator Allocator

	GP    *GPTable
	State RelocState

	bySection map[uint32]int
}

func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		bySection: make(map[uint32]int),
	}
}

// AddSegment registers seg. Each section may back at most one segment.
func (m *Module) AddSegment(seg *Segment) error {
	if m.bySection == nil {
		m.bySection = make(map[uint32]int)
	}
	if _, ok := m.bySection[seg.Section]; ok {
		return badModule(PhaseLoad, "section %d is already loaded", seg.Section)
	}
	if seg.Size > uint64(len(seg.Data)) {
		return badModule(PhaseLoad, "segment for section %d is smaller than its data", seg.Section)
	}
	m.bySection[seg.Section] = len(m.Segments)
	m.Segments = append(m.Segments, seg)
	return nil
}

// FindSegment returns the segment loaded from section, or nil.
func (m *Module) FindSegment(section uint32) *Segment {
	idx, ok := m.bySection[section]
	if !ok {
		return nil
	}
	return m.Segments[idx]
}

func (m *Module) allocator() Allocator {
	if m.Allocator == nil {
		return &HeapAllocator{}
	}
	return m.Allocator
}

// symbolValue reads st_value of symbol idx from the resolved symbol table.
func (m *Module) symbolValue(idx uint32, entsize uint64) (uint64, error) {
	off := uint64(idx) * entsize
	if entsize < uint64(SymbolSize) || off+uint64(SymbolSize) > uint64(len(m.Symtab)) {
		return 0, badModule(PhasePatching, "symbol index %d is out of the symbol table", idx)
	}
	return readSymValue(m.Symtab[off:]), nil
}
