package linker

import "fmt"

// RelocType is an IA-64 ELF relocation type (the low 32 bits of r_info).
type RelocType uint32

const (
	R_IA64_NONE         RelocType = 0x00
	R_IA64_IMM14        RelocType = 0x21
	R_IA64_IMM22        RelocType = 0x22
	R_IA64_IMM64        RelocType = 0x23
	R_IA64_DIR32MSB     RelocType = 0x24
	R_IA64_DIR32LSB     RelocType = 0x25
	R_IA64_DIR64MSB     RelocType = 0x26
	R_IA64_DIR64LSB     RelocType = 0x27
	R_IA64_GPREL22      RelocType = 0x2a
	R_IA64_GPREL64I     RelocType = 0x2b
	R_IA64_LTOFF22      RelocType = 0x32
	R_IA64_LTOFF64I     RelocType = 0x33
	R_IA64_PLTOFF22     RelocType = 0x3a
	R_IA64_FPTR64I      RelocType = 0x43
	R_IA64_FPTR64LSB    RelocType = 0x47
	R_IA64_PCREL60B     RelocType = 0x48
	R_IA64_PCREL21B     RelocType = 0x49
	R_IA64_PCREL21M     RelocType = 0x4a
	R_IA64_PCREL21F     RelocType = 0x4b
	R_IA64_PCREL64LSB   RelocType = 0x4f
	R_IA64_LTOFF_FPTR22 RelocType = 0x52
	R_IA64_SEGREL64LSB  RelocType = 0x5f
	R_IA64_SECREL64LSB  RelocType = 0x67
	R_IA64_LTOFF22X     RelocType = 0x86
	R_IA64_LDXMOV       RelocType = 0x87
)

var relocNames = map[RelocType]string{
	R_IA64_NONE:         "R_IA64_NONE",
	R_IA64_IMM14:        "R_IA64_IMM14",
	R_IA64_IMM22:        "R_IA64_IMM22",
	R_IA64_IMM64:        "R_IA64_IMM64",
	R_IA64_DIR32MSB:     "R_IA64_DIR32MSB",
	R_IA64_DIR32LSB:     "R_IA64_DIR32LSB",
	R_IA64_DIR64MSB:     "R_IA64_DIR64MSB",
	R_IA64_DIR64LSB:     "R_IA64_DIR64LSB",
	R_IA64_GPREL22:      "R_IA64_GPREL22",
	R_IA64_GPREL64I:     "R_IA64_GPREL64I",
	R_IA64_LTOFF22:      "R_IA64_LTOFF22",
	R_IA64_LTOFF64I:     "R_IA64_LTOFF64I",
	R_IA64_PLTOFF22:     "R_IA64_PLTOFF22",
	R_IA64_FPTR64I:      "R_IA64_FPTR64I",
	R_IA64_FPTR64LSB:    "R_IA64_FPTR64LSB",
	R_IA64_PCREL60B:     "R_IA64_PCREL60B",
	R_IA64_PCREL21B:     "R_IA64_PCREL21B",
	R_IA64_PCREL21M:     "R_IA64_PCREL21M",
	R_IA64_PCREL21F:     "R_IA64_PCREL21F",
	R_IA64_PCREL64LSB:   "R_IA64_PCREL64LSB",
	R_IA64_LTOFF_FPTR22: "R_IA64_LTOFF_FPTR22",
	R_IA64_SEGREL64LSB:  "R_IA64_SEGREL64LSB",
	R_IA64_SECREL64LSB:  "R_IA64_SECREL64LSB",
	R_IA64_LTOFF22X:     "R_IA64_LTOFF22X",
	R_IA64_LDXMOV:       "R_IA64_LDXMOV",
}

func (t RelocType) String() string {
	if name, ok := relocNames[t]; ok {
		return name
	}
	return fmt.Sprintf("R_IA64_0x%x", uint32(t))
}

// isGPLoad reports whether t allocates a global pointer table slot.
// LTOFF22X is treated as LTOFF22, which is what lets LDXMOV be ignored.
func (t RelocType) isGPLoad() bool {
	return t == R_IA64_LTOFF22 || t == R_IA64_LTOFF22X
}
