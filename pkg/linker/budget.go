package linker

import "debug/elf"

// TrampolineBudget returns the number of bytes to reserve after section
// sec for the trampolines its PCREL21B relocations may need. It returns 0
// for images without a symbol table or that cannot be parsed.
func TrampolineBudget(image []byte, sec uint32) uint64 {
	file, err := NewInputFile(image)
	if err != nil {
		return 0
	}
	return file.trampolineBudget(sec)
}

func (file *InputFile) trampolineBudget(sec uint32) uint64 {
	if symtab, _ := file.FindSection(uint32(elf.SHT_SYMTAB)); symtab == nil {
		return 0
	}

	cnt := uint64(0)
	for i := range file.Sections {
		shdr := &file.Sections[i]
		if shdr.Type != uint32(elf.SHT_RELA) || shdr.Info != sec {
			continue
		}

		relas, err := file.ReadRelas(shdr)
		if err != nil {
			Logger().Debug("skipping unreadable relocation section",
				zapSection(i), zapError(err))
			continue
		}
		for _, rel := range relas {
			if rel.Type() == R_IA64_PCREL21B {
				cnt++
			}
		}
	}

	return cnt * TrampolineSize
}
