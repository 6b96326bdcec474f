package linker

import "debug/elf"

// ObjectFile is a loadable module image with its symbol table decoded.
type ObjectFile struct {
	*InputFile

	SymtabSection *SectionHeader
	SymTable      []Sym64
	SymStrTable   []byte
	FirstGlobal   int64
}

func NewObjectFile(contents []byte) (*ObjectFile, error) {
	file, err := NewInputFile(contents)
	if err != nil {
		return nil, err
	}
	return &ObjectFile{InputFile: file}, nil
}

func (o *ObjectFile) Parse() error {
	o.SymtabSection, _ = o.FindSection(uint32(elf.SHT_SYMTAB))
	if o.SymtabSection == nil {
		return nil
	}

	o.FirstGlobal = int64(o.SymtabSection.Info)
	if err := o.FillUpSymbols(o.SymtabSection); err != nil {
		return err
	}
	if o.SymtabSection.Link != 0 {
		strtab, err := o.GetBytesFromIndex(uint64(o.SymtabSection.Link))
		if err != nil {
			return err
		}
		o.SymStrTable = strtab
	}
	return nil
}

func (o *ObjectFile) FillUpSymbols(s *SectionHeader) error {
	symContents, err := o.GetBytesFromShdr(s)
	if err != nil {
		return err
	}
	symNumber, entsize := entryCount(s, SymbolSize)

	o.SymTable = make([]Sym64, 0, symNumber)

	for i := uint64(0); i < symNumber; i++ {
		sym, err := readSym(symContents[i*entsize:])
		if err != nil {
			return err
		}
		o.SymTable = append(o.SymTable, sym)
	}
	return nil
}

func (o *ObjectFile) SymbolName(sym *Sym64) string {
	return GetNameFromTable(o.SymStrTable, sym.Name)
}
