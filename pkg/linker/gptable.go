package linker

import "encoding/binary"

// MaxGPTableSize is the largest global pointer table, in bytes, whose slot
// offsets can be encoded in an LTOFF22 immediate.
const MaxGPTableSize = mask19

const gpEntrySize = 8

// GPTable is a module's global pointer table: fixed-size 8-byte slots
// filled in order during relocation.
type GPTable struct {
	data   []byte
	cursor int
}

func newGPTable(data []byte) *GPTable {
	return &GPTable{data: data}
}

// Size is the table size in bytes.
func (g *GPTable) Size() int { return len(g.data) }

// Cap is the number of slots.
func (g *GPTable) Cap() int { return len(g.data) / gpEntrySize }

// Len is the number of slots filled.
func (g *GPTable) Len() int { return g.cursor }

// Entry is the value stored in slot i.
func (g *GPTable) Entry(i int) uint64 {
	return binary.LittleEndian.Uint64(g.data[i*gpEntrySize:])
}

// push stores value in the next free slot and returns the slot's byte
// offset from the table base.
func (g *GPTable) push(value uint64) (uint32, bool) {
	if g.cursor >= g.Cap() {
		return 0, false
	}
	off := g.cursor * gpEntrySize
	binary.LittleEndian.PutUint64(g.data[off:], value)
	g.cursor++
	return uint32(off), true
}
