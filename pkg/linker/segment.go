package linker

import "ia64dl/pkg/utils"

// Segment is a loaded section. Data holds the section contents followed by
// the space reserved for trampolines.
type Segment struct {
	Addr    uint64
	Size    uint64
	Section uint32
	Data    []byte

	trampolines int
}

// TrampolineBase is the segment offset of the first trampoline slot.
func (s *Segment) TrampolineBase() uint64 {
	return utils.AlignTo(s.Size, TrampolineAlign)
}

// Trampolines returns the number of trampolines written so far.
func (s *Segment) Trampolines() int { return s.trampolines }

// TrampolineCapacity is the number of trampolines that fit in the reserved tail.
func (s *Segment) TrampolineCapacity() int {
	base := s.TrampolineBase()
	if uint64(len(s.Data)) <= base {
		return 0
	}
	return int((uint64(len(s.Data)) - base) / TrampolineSize)
}

// Trampoline returns the bytes of the i-th written trampoline.
func (s *Segment) Trampoline(i int) []byte {
	off := s.TrampolineBase() + uint64(i)*TrampolineSize
	return s.Data[off : off+TrampolineSize]
}

// nextTrampoline returns the offset of the next free trampoline slot and
// whether it fits in the reserved tail.
func (s *Segment) nextTrampoline() (uint64, bool) {
	off := s.TrampolineBase() + uint64(s.trampolines)*TrampolineSize
	return off, off+TrampolineSize <= uint64(len(s.Data))
}
