package linker

type ContextArgs struct {
	Name      string
	Base      uint64
	MemLimit  uint64
	Externals map[string]uint64
}

// Context carries one module through validation, loading and relocation.
type Context struct {
	Args   ContextArgs
	Alloc  *HeapAllocator
	Obj    *ObjectFile
	Module *Module
}

func NewContext() *Context {
	return &Context{
		Args: ContextArgs{
			Name:      "module",
			Base:      0x100000,
			Externals: make(map[string]uint64),
		},
	}
}
