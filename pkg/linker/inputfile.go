package linker

import (
	"bytes"
	"debug/elf"

	"ia64dl/pkg/utils"
)

// InputFile is a read-only view of an ELF64 image's section header table.
type InputFile struct {
	Contents []byte
	Ehdr     Header64
	Sections []SectionHeader
	StrTable []byte
}

func NewInputFile(contents []byte) (*InputFile, error) {
	file := &InputFile{Contents: contents}

	if len(contents) < int(ELFHeaderSize) {
		return nil, badFormat("ELF file too small")
	}

	if !CheckMagic(contents) {
		return nil, badFormat("not an ELF file")
	}

	ehdr, err := utils.Read[Header64](contents)
	if err != nil {
		return nil, &Error{Phase: PhaseParse, Kind: KindBadFormat, Cause: err}
	}
	file.Ehdr = ehdr

	if ehdr.Shoff == 0 {
		return file, nil
	}
	if ehdr.Shoff > uint64(len(contents)) {
		return nil, badModule(PhaseParse, "section header table is out of range: %d", ehdr.Shoff)
	}

	contents = contents[ehdr.Shoff:]
	sectionHeader, err := utils.Read[SectionHeader](contents)
	if err != nil {
		return nil, &Error{Phase: PhaseParse, Kind: KindBadModule, Detail: "truncated section header", Cause: err}
	}
	sectionNumber := uint64(ehdr.Shnum)

	if sectionNumber == 0 {
		sectionNumber = sectionHeader.Size
	}

	shentsize := uint64(ehdr.Shentsize)
	if shentsize < uint64(SectionHeaderSize) {
		shentsize = uint64(SectionHeaderSize)
	}
	if sectionNumber > uint64(len(contents))/shentsize {
		return nil, badModule(PhaseParse, "%d section headers do not fit in the image", sectionNumber)
	}

	file.Sections = make([]SectionHeader, 1, sectionNumber)
	file.Sections[0] = sectionHeader

	for i := uint64(1); i < sectionNumber; i++ {
		shdr, err := utils.Read[SectionHeader](contents[i*shentsize:])
		if err != nil {
			return nil, &Error{Phase: PhaseParse, Kind: KindBadModule, Detail: "truncated section header", Cause: err}
		}
		file.Sections = append(file.Sections, shdr)
	}

	shstrndx := uint64(ehdr.Shstrndx)

	if shstrndx == uint64(elf.SHN_XINDEX) {
		shstrndx = uint64(sectionHeader.Link)
	}

	if shstrndx != 0 && shstrndx < uint64(len(file.Sections)) {
		file.StrTable, err = file.GetBytesFromIndex(shstrndx)
		if err != nil {
			return nil, err
		}
	}

	return file, nil
}

func (file *InputFile) GetBytesFromShdr(hdr *SectionHeader) ([]byte, error) {
	if hdr.Type == uint32(elf.SHT_NOBITS) {
		return nil, nil
	}
	start := hdr.Offset
	end := hdr.Offset + hdr.Size
	if end < start || uint64(len(file.Contents)) < end {
		return nil, badModule(PhaseParse, "section header is out of range: %d", hdr.Offset)
	}
	return file.Contents[start:end], nil
}

func (file *InputFile) GetBytesFromIndex(idx uint64) ([]byte, error) {
	if idx >= uint64(len(file.Sections)) {
		return nil, badModule(PhaseParse, "section index %d is out of range", idx)
	}
	return file.GetBytesFromShdr(&file.Sections[idx])
}

func GetNameFromTable(strTable []byte, offset uint32) string {
	if int(offset) >= len(strTable) {
		return ""
	}
	length := bytes.IndexByte(strTable[offset:], 0)
	if length < 0 {
		return string(strTable[offset:])
	}
	return string(strTable[offset : int(offset)+length])
}

func (file *InputFile) SectionName(idx int) string {
	return GetNameFromTable(file.StrTable, file.Sections[idx].Name)
}

// FindSection returns the first section of the given type and its index.
func (file *InputFile) FindSection(type_ uint32) (*SectionHeader, int) {
	for i := 0; i < len(file.Sections); i++ {
		shdr := &file.Sections[i]
		if shdr.Type == type_ {
			return shdr, i
		}
	}

	return nil, -1
}

// entryCount is the number of fixed-size records in a table section.
// A zero sh_entsize falls back to the record size of the table type.
func entryCount(shdr *SectionHeader, defaultSize uintptr) (count, entsize uint64) {
	entsize = shdr.Entsize
	if entsize == 0 {
		entsize = uint64(defaultSize)
	}
	return shdr.Size / entsize, entsize
}

// ReadRels decodes the records of an SHT_REL section.
func (file *InputFile) ReadRels(shdr *SectionHeader) ([]Rel64, error) {
	data, err := file.GetBytesFromShdr(shdr)
	if err != nil {
		return nil, err
	}
	n, entsize := entryCount(shdr, RelSize)
	rels := make([]Rel64, 0, n)
	for i := uint64(0); i < n; i++ {
		rel, err := utils.Read[Rel64](data[i*entsize:])
		if err != nil {
			return nil, &Error{Phase: PhaseParse, Kind: KindBadModule, Detail: "truncated relocation", Cause: err}
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// ReadRelas decodes the records of an SHT_RELA section.
func (file *InputFile) ReadRelas(shdr *SectionHeader) ([]Rela64, error) {
	data, err := file.GetBytesFromShdr(shdr)
	if err != nil {
		return nil, err
	}
	n, entsize := entryCount(shdr, RelaSize)
	relas := make([]Rela64, 0, n)
	for i := uint64(0); i < n; i++ {
		rela, err := utils.Read[Rela64](data[i*entsize:])
		if err != nil {
			return nil, &Error{Phase: PhaseParse, Kind: KindBadModule, Detail: "truncated relocation", Cause: err}
		}
		relas = append(relas, rela)
	}
	return relas, nil
}
