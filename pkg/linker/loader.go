package linker

import (
	"debug/elf"

	"go.uber.org/zap"

	"ia64dl/pkg/utils"
)

// LoadModule lays out the allocatable sections of obj from base, in section
// order, reserving each section's trampoline budget after its data.
func LoadModule(obj *ObjectFile, name string, base uint64, alloc Allocator) (*Module, error) {
	if err := ValidateHeader(obj.Contents); err != nil {
		return nil, err
	}
	if alloc == nil {
		alloc = &HeapAllocator{}
	}

	mod := NewModule(name)
	mod.Allocator = alloc
	addr := base

	for i := range obj.Sections {
		shdr := &obj.Sections[i]
		if shdr.Flags&uint64(elf.SHF_ALLOC) == 0 || shdr.Size == 0 {
			continue
		}

		addr = utils.AlignTo(addr, max(shdr.Addralign, 1))
		capacity := shdr.Size
		if budget := obj.trampolineBudget(uint32(i)); budget > 0 {
			capacity = utils.AlignTo(shdr.Size, TrampolineAlign) + budget
		}

		data, err := alloc.Alloc(capacity)
		if err != nil {
			return nil, AllocationFailed(PhaseLoad, capacity, err)
		}

		if shdr.Type != uint32(elf.SHT_NOBITS) {
			contents, err := obj.GetBytesFromShdr(shdr)
			if err != nil {
				return nil, err
			}
			copy(data, contents)
		}

		seg := &Segment{Addr: addr, Size: shdr.Size, Section: uint32(i), Data: data}
		if err := mod.AddSegment(seg); err != nil {
			return nil, err
		}
		Logger().Debug("segment loaded",
			zap.String("name", obj.SectionName(i)),
			zapSection(i),
			zapAddr("addr", addr),
			zap.Uint64("size", shdr.Size),
			zap.Uint64("capacity", capacity))

		addr += capacity
	}

	return mod, nil
}
