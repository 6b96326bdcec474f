package linker

import "go.uber.org/zap"

// ReadFile runs the whole load pipeline over a module image: header
// validation, segment layout with trampoline reservation, symbol
// resolution and relocation.
func ReadFile(ctx *Context, contents []byte) error {
	if GetFileType(contents) != FileTypeObject {
		return badFormat("unknown file type")
	}
	if err := ValidateHeader(contents); err != nil {
		return err
	}

	obj, err := NewObjectFile(contents)
	if err != nil {
		return err
	}
	if err := obj.Parse(); err != nil {
		return err
	}
	ctx.Obj = obj

	ctx.Alloc = &HeapAllocator{Limit: ctx.Args.MemLimit}
	mod, err := LoadModule(obj, ctx.Args.Name, ctx.Args.Base, ctx.Alloc)
	if err != nil {
		return err
	}
	ctx.Module = mod

	if err := ResolveSymbols(obj, mod, ctx.Args.Externals); err != nil {
		return err
	}

	if err := Relocate(mod, contents); err != nil {
		return err
	}

	Logger().Info("module ready",
		zap.String("module", mod.Name),
		zap.Uint64("memory", ctx.Alloc.Used()))
	return nil
}
