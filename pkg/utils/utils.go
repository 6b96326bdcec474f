package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
)

var fatalStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF6B6B"))

func Fatal(v any) {
	fmt.Fprintf(os.Stderr, "ia64dl:\n\t%s: %v\n", fatalStyle.Render("fatal"), v)
	debug.PrintStack()
	os.Exit(1)
}

func MustNo(err error) {
	if err != nil {
		Fatal(err.Error())
	}
}

// Read decodes a fixed-size little-endian value from the start of data.
func Read[T any](data []byte) (val T, err error) {
	reader := bytes.NewReader(data)
	err = binary.Read(reader, binary.LittleEndian, &val)
	return val, err
}

func Write[T any](data []byte, e T) error {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, e); err != nil {
		return err
	}
	if buf.Len() > len(data) {
		return fmt.Errorf("write of %d bytes into %d byte buffer", buf.Len(), len(data))
	}
	copy(data, buf.Bytes())
	return nil
}

// AlignTo rounds val up to a multiple of align, which must be a power of two.
func AlignTo(val, align uint64) uint64 {
	if align == 0 {
		return val
	}
	return (val + align - 1) &^ (align - 1)
}
