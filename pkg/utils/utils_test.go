package utils

import "testing"

func TestAlignTo(t *testing.T) {
	tests := []struct {
		val, align, want uint64
	}{
		{0, 16, 0},
		{1, 16, 16},
		{16, 16, 16},
		{17, 16, 32},
		{5, 0, 5},
		{7, 8, 8},
	}
	for _, tt := range tests {
		if got := AlignTo(tt.val, tt.align); got != tt.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tt.val, tt.align, got, tt.want)
		}
	}
}

func TestReadWrite(t *testing.T) {
	type pair struct {
		A uint32
		B uint16
	}
	buf := make([]byte, 6)
	if err := Write(buf, pair{A: 0x11223344, B: 0x5566}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf[0] != 0x44 || buf[5] != 0x55 {
		t.Fatalf("unexpected layout % x", buf)
	}
	got, err := Read[pair](buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.A != 0x11223344 || got.B != 0x5566 {
		t.Errorf("Read = %+v", got)
	}

	if err := Write(buf[:3], pair{}); err == nil {
		t.Error("expected error writing into short buffer")
	}
	if _, err := Read[pair](buf[:3]); err == nil {
		t.Error("expected error reading from short buffer")
	}
}
