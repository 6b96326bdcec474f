package linker

import (
	"debug/elf"
	"encoding/binary"

	"go.uber.org/zap"
)

// Relocate applies the relocations of image to the loaded segments of mod
// and builds its global pointer table.
//
// The table is sized from the SHT_REL sections first, then every SHT_RELA
// section targeting a loaded segment is applied. Processing stops at the
// first error; patches already applied are not undone and the module must
// be discarded.
func Relocate(mod *Module, image []byte) (err error) {
	if mod.State != StateNotStarted {
		return badModule(PhaseSizing, "module relocation is already %s", mod.State)
	}

	defer func() {
		if err != nil {
			mod.State = StateFailed
			Logger().Warn("relocation failed", zap.String("module", mod.Name), zapError(err))
		}
	}()

	file, err := NewInputFile(image)
	if err != nil {
		return err
	}

	mod.State = StateSizing
	if err := sizeGPTable(mod, file); err != nil {
		return err
	}

	mod.State = StatePatching
	if err := applyRelocations(mod, file); err != nil {
		return err
	}

	mod.State = StateDone
	Logger().Debug("module relocated",
		zap.String("module", mod.Name),
		zap.Int("segments", len(mod.Segments)),
		zap.Int("gp_entries", mod.GP.Len()))
	return nil
}

// sizeGPTable counts the LTOFF22 relocations of every SHT_REL section that
// targets a loaded segment and allocates one table slot for each.
func sizeGPTable(mod *Module, file *InputFile) error {
	gpSize := uint64(0)

	for i := range file.Sections {
		shdr := &file.Sections[i]
		if shdr.Type != uint32(elf.SHT_REL) || mod.FindSegment(shdr.Info) == nil {
			continue
		}

		rels, err := file.ReadRels(shdr)
		if err != nil {
			return err
		}
		for _, rel := range rels {
			if rel.Type().isGPLoad() {
				gpSize += gpEntrySize
			}
		}
	}

	if gpSize > MaxGPTableSize {
		return outOfRange(PhaseSizing, gpSize, "gp too big: %d bytes", gpSize)
	}

	data, err := mod.allocator().Alloc(gpSize)
	if err != nil {
		return AllocationFailed(PhaseSizing, gpSize, err)
	}
	mod.GP = newGPTable(data)
	return nil
}

func applyRelocations(mod *Module, file *InputFile) error {
	symtab, _ := file.FindSection(uint32(elf.SHT_SYMTAB))
	if symtab == nil {
		return badModule(PhasePatching, "no symtab found")
	}
	_, entsize := entryCount(symtab, SymbolSize)

	for i := range file.Sections {
		shdr := &file.Sections[i]
		if shdr.Type != uint32(elf.SHT_RELA) {
			continue
		}
		seg := mod.FindSegment(shdr.Info)
		if seg == nil {
			continue
		}

		relas, err := file.ReadRelas(shdr)
		if err != nil {
			return err
		}

		r := &relocator{mod: mod, seg: seg, entsize: entsize}
		for _, rel := range relas {
			if err := r.apply(rel); err != nil {
				return err
			}
		}
	}

	return nil
}

type relocator struct {
	mod     *Module
	seg     *Segment
	entsize uint64
}

func (r *relocator) apply(rel Rela64) error {
	seg := r.seg
	if seg.Size < rel.Offset&^3 {
		return badModule(PhasePatching, "reloc offset is out of the segment")
	}

	typ := rel.Type()
	switch typ {
	case R_IA64_PCREL21B, R_IA64_SEGREL64LSB, R_IA64_LTOFF22, R_IA64_LTOFF22X:
	case R_IA64_LDXMOV:
		// Fully resolved by the LTOFF22X it accompanies.
		return nil
	default:
		return NotImplemented(typ)
	}

	value, err := r.mod.symbolValue(rel.Sym(), r.entsize)
	if err != nil {
		return err
	}
	value += uint64(rel.Addend)

	switch typ {
	case R_IA64_PCREL21B:
		return r.branchViaTrampoline(rel, value)
	case R_IA64_SEGREL64LSB:
		word, err := r.window(rel.Offset, 8)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(word, binary.LittleEndian.Uint64(word)+value-rel.Offset)
	case R_IA64_LTOFF22, R_IA64_LTOFF22X:
		bundle, slot, err := r.bundle(rel.Offset)
		if err != nil {
			return err
		}
		off, ok := r.mod.GP.push(value)
		if !ok {
			return outOfRange(PhasePatching, uint64(r.mod.GP.Cap()), "more gp relocations than the %d sized slots", r.mod.GP.Cap())
		}
		AddToSlot(bundle, slot, off)
	}
	return nil
}

// branchViaTrampoline redirects a PCREL21B branch to a new trampoline that
// jumps to value.
func (r *relocator) branchViaTrampoline(rel Rela64, value uint64) error {
	seg := r.seg
	bundle, slot, err := r.bundle(rel.Offset)
	if err != nil {
		return err
	}

	trOff, ok := seg.nextTrampoline()
	if !ok {
		return badModule(PhasePatching, "no trampoline space left in section %d", seg.Section)
	}
	MakeTrampoline(seg.Data[trOff:], value)
	seg.trampolines++

	bundleAddr := seg.Addr + rel.Offset&^3
	trAddr := seg.Addr + trOff
	noff := (trAddr - bundleAddr) >> 4
	if noff&^mask19 != 0 {
		return outOfRange(PhasePatching, noff, "trampoline offset too big: %d bundles", noff)
	}
	AddToSlot(bundle, slot, uint32(noff))

	Logger().Debug("trampoline",
		zapAddr("branch", bundleAddr),
		zapAddr("stub", trAddr),
		zapAddr("target", value))
	return nil
}

// bundle decodes an instruction relocation offset: the bundle address with
// the slot number in the low two bits.
func (r *relocator) bundle(offset uint64) ([]byte, int, error) {
	slot := int(offset & 3)
	if slot > 2 {
		return nil, 0, badModule(PhasePatching, "invalid instruction slot %d at offset 0x%x", slot, offset)
	}
	b, err := r.window(offset&^3, BundleSize)
	return b, slot, err
}

// window returns size bytes of segment data at offset, which must lie in
// the segment's original data.
func (r *relocator) window(offset, size uint64) ([]byte, error) {
	if offset+size < offset || offset+size > r.seg.Size {
		return nil, badModule(PhasePatching, "reloc at 0x%x overruns the segment", offset)
	}
	return r.seg.Data[offset : offset+size], nil
}
