package linker

import "encoding/binary"

// BundleSize is the size of an IA-64 instruction bundle.
const BundleSize = 16

const (
	mask19 = 1<<19 - 1
	mask20 = 1<<20 - 1
)

// slotField locates the 20-bit immediate of one instruction slot: a 32-bit
// little-endian window read at byteOff, with the field starting at bit shift.
type slotField struct {
	byteOff int
	shift   uint
}

var slotFields = [3]slotField{
	{byteOff: 2, shift: 2},
	{byteOff: 7, shift: 3},
	{byteOff: 12, shift: 4},
}

// SlotValue returns the 20-bit immediate held by slot of bundle.
func SlotValue(bundle []byte, slot int) uint32 {
	f := slotFields[slot]
	w := binary.LittleEndian.Uint32(bundle[f.byteOff:])
	return (w >> f.shift) & mask20
}

// AddToSlot adds value to the 20-bit immediate of slot, wrapping at 20 bits.
// Bits outside the field are preserved.
func AddToSlot(bundle []byte, slot int, value uint32) {
	f := slotFields[slot]
	p := bundle[f.byteOff : f.byteOff+4]
	w := binary.LittleEndian.Uint32(p)
	field := (((w >> f.shift) & mask20) + value) & mask20
	binary.LittleEndian.PutUint32(p, field<<f.shift|w&^(mask20<<f.shift))
}
