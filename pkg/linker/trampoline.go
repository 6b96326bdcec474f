package linker

const (
	// TrampolineSize is the size of one synthesized far-branch stub.
	TrampolineSize = nopmSize + movlSize + jumpSize
	// TrampolineAlign is the alignment of the first stub after segment data.
	TrampolineAlign = 16

	nopmSize = 5
	movlSize = 11
	jumpSize = 0x20
)

// [MLX] nop.m 0x0
var nopm = [nopmSize]byte{
	0x05, 0x00, 0x00, 0x00, 0x01,
}

// Branches through the function descriptor whose address movl put in r15.
var jump = [jumpSize]byte{
	/* ld8 r16=[r15],8 */
	0x02, 0x80, 0x20, 0x1e, 0x18, 0x14,
	/* mov r14=r1;; */
	0xe0, 0x00, 0x04, 0x00, 0x42, 0x00,
	/* nop.i 0x0 */
	0x00, 0x00, 0x04, 0x00,
	/* ld8 r1=[r15] */
	0x11, 0x08, 0x00, 0x1e, 0x18, 0x10,
	/* mov b6=r16 */
	0x60, 0x80, 0x04, 0x80, 0x03, 0x00,
	/* br.few b6;; */
	0x60, 0x00, 0x80, 0x00,
}

// movlField maps Width address bits starting at AddrBit to bits starting at
// Bit of byte Byte of the 11-byte movl r15=imm64 fragment. Bytes 0-5 carry
// the high part of the immediate (the L slot), bytes 7-10 the low part
// (imm7b, imm9d, imm5c, ic of the X slot).
type movlField struct {
	AddrBit uint
	Width   uint
	Byte    int
	Bit     uint
}

// movlLayout is the complete bit layout of the 64-bit immediate. Every
// address bit appears in exactly one field.
var movlLayout = [...]movlField{
	{AddrBit: 0, Width: 4, Byte: 7, Bit: 4},   // imm7b[0:4]
	{AddrBit: 4, Width: 3, Byte: 8, Bit: 0},   // imm7b[4:7]
	{AddrBit: 7, Width: 6, Byte: 9, Bit: 2},   // imm9d[0:6]
	{AddrBit: 13, Width: 3, Byte: 10, Bit: 0}, // imm9d[6:9]
	{AddrBit: 16, Width: 3, Byte: 8, Bit: 5},  // imm5c[0:3]
	{AddrBit: 19, Width: 2, Byte: 9, Bit: 0},  // imm5c[3:5]
	{AddrBit: 21, Width: 1, Byte: 8, Bit: 4},  // ic
	{AddrBit: 22, Width: 2, Byte: 0, Bit: 4},  // imm41[0:2]
	{AddrBit: 24, Width: 8, Byte: 1, Bit: 0},
	{AddrBit: 32, Width: 8, Byte: 2, Bit: 0},
	{AddrBit: 40, Width: 8, Byte: 3, Bit: 0},
	{AddrBit: 48, Width: 8, Byte: 4, Bit: 0},
	{AddrBit: 56, Width: 8, Byte: 5, Bit: 0}, // imm41[34:40], i
}

// Fixed opcode and register bits of the movl fragment.
var movlMarkers = [movlSize]byte{6: 0xe0, 7: 0x01, 10: 0x60}

// EncodeMovlAddress scatters addr over the immediate fields of a
// movl r15=addr fragment.
func EncodeMovlAddress(addr uint64) [movlSize]byte {
	out := movlMarkers
	for _, f := range movlLayout {
		bits := (addr >> f.AddrBit) & (1<<f.Width - 1)
		out[f.Byte] |= byte(bits << f.Bit)
	}
	return out
}

// DecodeMovlAddress gathers the 64-bit immediate back out of a movl fragment.
func DecodeMovlAddress(movl []byte) uint64 {
	var addr uint64
	for _, f := range movlLayout {
		bits := uint64(movl[f.Byte]>>f.Bit) & (1<<f.Width - 1)
		addr |= bits << f.AddrBit
	}
	return addr
}

// MakeTrampoline writes a stub to dst that loads addr into r15 and
// branches through the descriptor it points to.
func MakeTrampoline(dst []byte, addr uint64) {
	_ = dst[TrampolineSize-1]
	copy(dst, nopm[:])
	movl := EncodeMovlAddress(addr)
	copy(dst[nopmSize:], movl[:])
	copy(dst[nopmSize+movlSize:], jump[:])
}

// TrampolineTarget returns the address a stub written by MakeTrampoline
// branches through, and whether tramp looks like such a stub.
func TrampolineTarget(tramp []byte) (uint64, bool) {
	if len(tramp) < TrampolineSize {
		return 0, false
	}
	if [nopmSize]byte(tramp[:nopmSize]) != nopm ||
		[jumpSize]byte(tramp[nopmSize+movlSize:TrampolineSize]) != jump {
		return 0, false
	}
	return DecodeMovlAddress(tramp[nopmSize : nopmSize+movlSize]), true
}
