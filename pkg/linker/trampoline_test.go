package linker

import (
	"bytes"
	"testing"
)

// decodeMovlReference reads the immediate back using the byte formulas of
// the movl r15 fragment directly, independent of movlLayout.
func decodeMovlReference(m []byte) uint64 {
	hi, lo := m[0:6], m[7:11]
	addr := uint64(hi[0]&0x30) << 18
	for i := 1; i < 6; i++ {
		addr |= uint64(hi[i]) << (16 + 8*uint(i))
	}
	addr |= uint64(lo[0]>>4) & 0xf
	addr |= uint64(lo[1]&0x07) << 4
	addr |= uint64(lo[1]&0xe0) << 11
	addr |= uint64(lo[1]&0x10) << 17
	addr |= uint64(lo[2]&0xfc) << 5
	addr |= uint64(lo[2]&0x03) << 19
	addr |= uint64(lo[3]&0x07) << 13
	return addr
}

func TestMakeTrampolineLayout(t *testing.T) {
	if TrampolineSize != 48 {
		t.Fatalf("TrampolineSize = %d, want 48", TrampolineSize)
	}

	tr := make([]byte, TrampolineSize)
	MakeTrampoline(tr, 0)

	want := []byte{
		0x05, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xe0, 0x01, 0x00, 0x00, 0x60,
		0x02, 0x80, 0x20, 0x1e, 0x18, 0x14,
		0xe0, 0x00, 0x04, 0x00, 0x42, 0x00,
		0x00, 0x00, 0x04, 0x00,
		0x11, 0x08, 0x00, 0x1e, 0x18, 0x10,
		0x60, 0x80, 0x04, 0x80, 0x03, 0x00,
		0x60, 0x00, 0x80, 0x00,
	}
	if !bytes.Equal(tr, want) {
		t.Errorf("trampoline for 0:\n got % x\nwant % x", tr, want)
	}
}

func TestMakeTrampolineRoundTrip(t *testing.T) {
	addrs := []uint64{
		0,
		^uint64(0),
		0x0123456789abcdef,
		0xe000000004a3c1d0,
	}
	for _, f := range movlLayout {
		addrs = append(addrs, 1<<f.AddrBit, 1<<(f.AddrBit+f.Width-1))
	}

	for _, addr := range addrs {
		tr := make([]byte, TrampolineSize)
		MakeTrampoline(tr, addr)

		movl := tr[nopmSize : nopmSize+movlSize]
		if got := decodeMovlReference(movl); got != addr {
			t.Errorf("reference decode of %#x = %#x", addr, got)
		}
		if got, ok := TrampolineTarget(tr); !ok || got != addr {
			t.Errorf("TrampolineTarget(%#x) = %#x, %v", addr, got, ok)
		}
		if movl[6] != 0xe0 || movl[7]&0x0f != 0x01 || movl[10]&0xf8 != 0x60 {
			t.Errorf("%#x: marker bits clobbered: % x", addr, movl)
		}
	}
}

func TestMovlLayoutCoversEveryBit(t *testing.T) {
	var seen uint64
	var used [movlSize]byte
	for _, f := range movlLayout {
		bits := uint64(1)<<f.Width - 1
		if seen&(bits<<f.AddrBit) != 0 {
			t.Errorf("address bits %d+%d mapped twice", f.AddrBit, f.Width)
		}
		seen |= bits << f.AddrBit

		b := byte(bits << f.Bit)
		if used[f.Byte]&b != 0 || movlMarkers[f.Byte]&b != 0 {
			t.Errorf("byte %d bits %#x overlap", f.Byte, b)
		}
		used[f.Byte] |= b
	}
	if seen != ^uint64(0) {
		t.Errorf("unmapped address bits: %#x", ^seen)
	}
}

func TestTrampolineTargetRejectsOtherCode(t *testing.T) {
	if _, ok := TrampolineTarget(make([]byte, TrampolineSize)); ok {
		t.Error("zero bytes accepted as a trampoline")
	}
	if _, ok := TrampolineTarget(make([]byte, 10)); ok {
		t.Error("short buffer accepted as a trampoline")
	}
}
