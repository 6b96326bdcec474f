package linker

import (
	"debug/elf"
	"encoding/binary"
	"testing"

	"ia64dl/pkg/utils"
)

// testSection describes one section of a synthesized relocatable image.
type testSection struct {
	name    string
	typ     elf.SectionType
	flags   elf.SectionFlag
	data    []byte
	size    uint64 // SHT_NOBITS only
	link    uint32
	info    uint32
	align   uint64
	entsize uint64
}

type elfBuilder struct {
	class    elf.Class
	data     elf.Data
	machine  elf.Machine
	sections []testSection
}

func newELFBuilder() *elfBuilder {
	return &elfBuilder{
		class:    elf.ELFCLASS64,
		data:     elf.ELFDATA2LSB,
		machine:  elf.EM_IA_64,
		sections: []testSection{{}},
	}
}

func (b *elfBuilder) add(s testSection) uint32 {
	b.sections = append(b.sections, s)
	return uint32(len(b.sections) - 1)
}

func (b *elfBuilder) build(t testing.TB) []byte {
	t.Helper()

	secs := make([]testSection, len(b.sections), len(b.sections)+1)
	copy(secs, b.sections)

	shstr := []byte{0}
	names := make([]uint32, len(secs)+1)
	for i := 1; i < len(secs); i++ {
		names[i] = uint32(len(shstr))
		shstr = append(append(shstr, secs[i].name...), 0)
	}
	names[len(secs)] = uint32(len(shstr))
	shstr = append(shstr, ".shstrtab\x00"...)
	secs = append(secs, testSection{name: ".shstrtab", typ: elf.SHT_STRTAB, data: shstr})

	buf := make([]byte, ELFHeaderSize)
	shdrs := make([]SectionHeader, len(secs))
	for i := 1; i < len(secs); i++ {
		s := secs[i]
		for len(buf)%8 != 0 {
			buf = append(buf, 0)
		}
		size := uint64(len(s.data))
		if s.typ == elf.SHT_NOBITS {
			size = s.size
		}
		align := s.align
		if align == 0 {
			align = 1
		}
		shdrs[i] = SectionHeader{
			Name:      names[i],
			Type:      uint32(s.typ),
			Flags:     uint64(s.flags),
			Offset:    uint64(len(buf)),
			Size:      size,
			Link:      s.link,
			Info:      s.info,
			Addralign: align,
			Entsize:   s.entsize,
		}
		if s.typ != elf.SHT_NOBITS {
			buf = append(buf, s.data...)
		}
	}

	for len(buf)%8 != 0 {
		buf = append(buf, 0)
	}
	shoff := len(buf)
	buf = append(buf, make([]byte, len(shdrs)*int(SectionHeaderSize))...)
	for i, shdr := range shdrs {
		if err := utils.Write(buf[shoff+i*int(SectionHeaderSize):], shdr); err != nil {
			t.Fatalf("write section header: %v", err)
		}
	}

	ehdr := Header64{
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(b.machine),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     uint64(shoff),
		Ehsize:    uint16(ELFHeaderSize),
		Shentsize: uint16(SectionHeaderSize),
		Shnum:     uint16(len(shdrs)),
		Shstrndx:  uint16(len(shdrs) - 1),
	}
	WriteMagic(ehdr.Ident[:])
	ehdr.Ident[elf.EI_CLASS] = byte(b.class)
	ehdr.Ident[elf.EI_DATA] = byte(b.data)
	ehdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	if err := utils.Write(buf, ehdr); err != nil {
		t.Fatalf("write header: %v", err)
	}
	return buf
}

// records encodes fixed-size records back to back.
func records[T any](recs ...T) []byte {
	size := binary.Size(*new(T))
	out := make([]byte, len(recs)*size)
	for i, r := range recs {
		if err := utils.Write(out[i*size:], r); err != nil {
			panic(err)
		}
	}
	return out
}

// Section indexes used by moduleImage.
const (
	textIdx   = 1
	symtabIdx = 2
	strtabIdx = 3
)

// moduleImage builds an image with a .text section, a symbol table and the
// given relocation sections targeting .text.
func moduleImage(t testing.TB, text []byte, syms []Sym64, relas []Rela64, rels []Rel64) []byte {
	t.Helper()
	b := newELFBuilder()
	b.add(testSection{name: ".text", typ: elf.SHT_PROGBITS, flags: elf.SHF_ALLOC | elf.SHF_EXECINSTR, data: text, align: 16})
	b.add(testSection{name: ".symtab", typ: elf.SHT_SYMTAB, data: records(syms...), link: strtabIdx, info: 1, entsize: uint64(SymbolSize), align: 8})
	b.add(testSection{name: ".strtab", typ: elf.SHT_STRTAB, data: []byte{0}})
	if relas != nil {
		b.add(testSection{name: ".rela.text", typ: elf.SHT_RELA, data: records(relas...), link: symtabIdx, info: textIdx, entsize: uint64(RelaSize), align: 8})
	}
	if rels != nil {
		b.add(testSection{name: ".rel.text", typ: elf.SHT_REL, data: records(rels...), link: symtabIdx, info: textIdx, entsize: uint64(RelSize), align: 8})
	}
	return b.build(t)
}

// absSyms returns a symbol table whose symbols 1..n have the given values.
func absSyms(values ...uint64) []Sym64 {
	syms := []Sym64{{}}
	for _, v := range values {
		syms = append(syms, Sym64{Shndx: uint16(elf.SHN_ABS), Value: v})
	}
	return syms
}

// testModule maps .text of an image at addr with room for ntramp trampolines.
func testModule(text []byte, addr uint64, ntramp int, syms []Sym64) *Module {
	size := uint64(len(text))
	data := make([]byte, utils.AlignTo(size, TrampolineAlign)+uint64(ntramp)*TrampolineSize)
	copy(data, text)

	mod := NewModule("test")
	if err := mod.AddSegment(&Segment{Addr: addr, Size: size, Section: textIdx, Data: data}); err != nil {
		panic(err)
	}
	mod.Symtab = records(syms...)
	return mod
}
