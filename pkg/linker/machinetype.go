package linker

import (
	"debug/elf"
	"encoding/binary"
)

type MachineType = uint8

const (
	MachineTypeNone MachineType = iota
	MachineTypeIA64 MachineType = iota
)

// Offset of e_machine in the ELF header.
const machineOffset = 18

// ValidateHeader checks that hdr identifies a little-endian ELF64 image
// for IA-64. It has no side effects.
func ValidateHeader(hdr []byte) error {
	if len(hdr) < int(ELFHeaderSize) || !CheckMagic(hdr) {
		return badFormat("not an ELF header")
	}

	if elf.Class(hdr[elf.EI_CLASS]) != elf.ELFCLASS64 ||
		elf.Data(hdr[elf.EI_DATA]) != elf.ELFDATA2LSB ||
		elf.Machine(binary.LittleEndian.Uint16(hdr[machineOffset:])) != elf.EM_IA_64 {
		return badFormat("invalid arch specific ELF magic")
	}

	return nil
}

func GetMachineTypeFromContents(contents []byte) MachineType {
	if GetFileType(contents) != FileTypeObject {
		return MachineTypeNone
	}
	if ValidateHeader(contents) != nil {
		return MachineTypeNone
	}
	return MachineTypeIA64
}

type MachineTypeStringer struct {
	MachineType
}

func (m MachineTypeStringer) String() string {
	switch m.MachineType {
	case MachineTypeIA64:
		return "ia64"
	}

	return "none"
}
