package linker

import (
	"bytes"
	"debug/elf"
	"unsafe"
)

type Header64 struct {
	Ident     [16]byte /* File identification. */
	Type      uint16   /* File type. */
	Machine   uint16   /* Machine architecture. */
	Version   uint32   /* ELF format version. */
	Entry     uint64   /* Entry point. */
	Phoff     uint64   /* Program header file offset. */
	Shoff     uint64   /* Section header file offset. */
	Flags     uint32   /* Architecture-specific flags. */
	Ehsize    uint16   /* Size of ELF header in bytes. */
	Phentsize uint16   /* Size of program header entry. */
	Phnum     uint16   /* Number of program header entries. */
	Shentsize uint16   /* Size of section header entry. */
	Shnum     uint16   /* Number of section header entries. */
	Shstrndx  uint16   /* Section name strings section. */
}

type SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

type Sym64 struct {
	Name  uint32 /* String table index of name. */
	Info  uint8  /* Type and binding information. */
	Other uint8  /* Reserved (not used). */
	Shndx uint16 /* Section index of symbol. */
	Value uint64 /* Symbol value. */
	Size  uint64 /* Size of associated object. */
}

// Rel64 is a relocation record without an explicit addend.
type Rel64 struct {
	Offset uint64
	Info   uint64
}

// Rela64 is a relocation record carrying a signed addend.
type Rela64 struct {
	Offset uint64
	Info   uint64
	Addend int64
}

func (r Rel64) Type() RelocType  { return RelocType(r.Info & 0xffffffff) }
func (r Rel64) Sym() uint32      { return uint32(r.Info >> 32) }
func (r Rela64) Type() RelocType { return RelocType(r.Info & 0xffffffff) }
func (r Rela64) Sym() uint32     { return uint32(r.Info >> 32) }

// RelInfo packs a symbol index and a relocation type into an r_info word.
func RelInfo(sym uint32, typ RelocType) uint64 {
	return uint64(sym)<<32 | uint64(typ)
}

const ELFHeaderSize = unsafe.Sizeof(Header64{})
const SectionHeaderSize = unsafe.Sizeof(SectionHeader{})
const SymbolSize = unsafe.Sizeof(Sym64{})
const RelSize = unsafe.Sizeof(Rel64{})
const RelaSize = unsafe.Sizeof(Rela64{})

// Offset of st_value inside an ELF64 symbol record.
const symValueOffset = unsafe.Offsetof(Sym64{}.Value)

func CheckMagic(contents []byte) bool {
	return bytes.HasPrefix(contents, []byte(elf.ELFMAG))
}

func WriteMagic(contents []byte) {
	copy(contents, elf.ELFMAG)
}
