package linker

import (
	"debug/elf"
	"encoding/binary"

	"ia64dl/pkg/utils"
)

func readSym(data []byte) (Sym64, error) {
	sym, err := utils.Read[Sym64](data)
	if err != nil {
		return sym, &Error{Phase: PhaseParse, Kind: KindBadModule, Detail: "truncated symbol", Cause: err}
	}
	return sym, nil
}

func readSymValue(rec []byte) uint64 {
	return binary.LittleEndian.Uint64(rec[symValueOffset:])
}

func putSymValue(rec []byte, value uint64) {
	binary.LittleEndian.PutUint64(rec[symValueOffset:], value)
}

// ResolveSymbols builds mod.Symtab from the object's symbol table. Symbols
// defined in a loaded section are rebased onto the segment address,
// absolute symbols keep their value and undefined symbols are looked up by
// name in externals.
func ResolveSymbols(obj *ObjectFile, mod *Module, externals map[string]uint64) error {
	if obj.SymtabSection == nil {
		return badModule(PhaseLoad, "no symtab found")
	}

	raw, err := obj.GetBytesFromShdr(obj.SymtabSection)
	if err != nil {
		return err
	}
	_, entsize := entryCount(obj.SymtabSection, SymbolSize)
	symtab := make([]byte, len(raw))
	copy(symtab, raw)

	for i := range obj.SymTable {
		sym := &obj.SymTable[i]
		rec := symtab[uint64(i)*entsize:]

		switch shndx := elf.SectionIndex(sym.Shndx); {
		case i == 0:
			continue
		case shndx == elf.SHN_ABS:
			continue
		case shndx == elf.SHN_UNDEF:
			name := obj.SymbolName(sym)
			addr, ok := externals[name]
			if !ok {
				return badModule(PhaseLoad, "symbol `%s' not found", name)
			}
			putSymValue(rec, addr)
		case shndx < elf.SHN_LORESERVE:
			if seg := mod.FindSegment(uint32(shndx)); seg != nil {
				putSymValue(rec, seg.Addr+sym.Value)
			}
		}
	}

	mod.Symtab = symtab
	return nil
}
