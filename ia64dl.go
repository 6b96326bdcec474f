package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"ia64dl/pkg/linker"
	"ia64dl/pkg/utils"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// symFlag collects -sym name=addr definitions for undefined symbols.
type symFlag map[string]uint64

func (s symFlag) String() string { return "" }

func (s symFlag) Set(v string) error {
	name, val, ok := strings.Cut(v, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=addr, got %q", v)
	}
	addr, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		return err
	}
	s[name] = addr
	return nil
}

func main() {
	ctx := linker.NewContext()
	syms := symFlag(ctx.Args.Externals)

	var (
		base     = flag.String("base", "0x100000", "Load address of the first segment")
		memLimit = flag.Uint64("mem-limit", 0, "Maximum bytes to allocate for the module (0 = unlimited)")
		verbose  = flag.Bool("v", false, "Log relocation progress")
	)
	flag.Var(syms, "sym", "Address of an undefined symbol (name=addr, repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ia64dl [-base addr] [-sym name=addr]... [-v] <module.o>")
		os.Exit(1)
	}

	if *verbose {
		l, err := zap.NewDevelopment()
		utils.MustNo(err)
		defer l.Sync()
		linker.SetLogger(l)
	}

	b, err := strconv.ParseUint(*base, 0, 64)
	if err != nil {
		utils.Fatal(fmt.Sprintf("bad -base: %v", err))
	}
	ctx.Args.Base = b
	ctx.Args.MemLimit = *memLimit
	ctx.Args.Name = strings.TrimSuffix(filepath.Base(flag.Arg(0)), filepath.Ext(flag.Arg(0)))

	contents, err := os.ReadFile(flag.Arg(0))
	utils.MustNo(err)

	utils.MustNo(linker.ReadFile(ctx, contents))

	report(ctx)
}

func report(ctx *linker.Context) {
	mod := ctx.Module
	fmt.Println(titleStyle.Render(fmt.Sprintf("module %s (%s)", mod.Name,
		linker.MachineTypeStringer{MachineType: linker.GetMachineTypeFromContents(ctx.Obj.Contents)})))

	for _, seg := range mod.Segments {
		fmt.Printf("  %-20s 0x%016x size 0x%x\n",
			ctx.Obj.SectionName(int(seg.Section)), seg.Addr, seg.Size)
		for i := 0; i < seg.Trampolines(); i++ {
			target, _ := linker.TrampolineTarget(seg.Trampoline(i))
			addr := seg.Addr + seg.TrampolineBase() + uint64(i)*linker.TrampolineSize
			fmt.Println(dimStyle.Render(fmt.Sprintf("    tramp 0x%016x -> 0x%016x", addr, target)))
		}
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("gp table: %d entries", mod.GP.Len())))
	for i := 0; i < mod.GP.Len(); i++ {
		fmt.Printf("  +0x%05x 0x%016x\n", i*8, mod.GP.Entry(i))
	}
}
