package linker

import "fmt"

// Allocator provides the memory for segments and global pointer tables.
type Allocator interface {
	Alloc(size uint64) ([]byte, error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(size uint64) ([]byte, error)

func (f AllocatorFunc) Alloc(size uint64) ([]byte, error) { return f(size) }

// HeapAllocator allocates zeroed Go memory. A non-zero Limit caps the total
// number of bytes handed out.
type HeapAllocator struct {
	Limit uint64
	used  uint64
}

func (h *HeapAllocator) Alloc(size uint64) ([]byte, error) {
	if h.Limit != 0 && (size > h.Limit || h.used > h.Limit-size) {
		return nil, fmt.Errorf("allocation of %d bytes exceeds limit (%d of %d in use)", size, h.used, h.Limit)
	}
	h.used += size
	return make([]byte, size), nil
}

func (h *HeapAllocator) Used() uint64 { return h.used }
