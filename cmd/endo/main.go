// Command endo is a minimal REPL over pkg/endoapi, CoreVM's embeddable
// compiler/VM façade. It is not a shell: its grammar is just enough to
// exercise the façade end to end (numeric/string literals, +-*/,
// comparisons, if/then/else, and two demonstration native functions).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/contour-terminal/endo/internal/diagnostics"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
	"github.com/contour-terminal/endo/internal/vm"
	"github.com/contour-terminal/endo/pkg/endoapi"
)

const historyFile = ".endo_history"

const banner = "endo — CoreVM demo shell (:quit to exit, -help for flags)"

func newRegistry() (*endoapi.Registry, map[string]literal.Signature) {
	reg := endoapi.NewRegistry()
	sigs := make(map[string]literal.Signature)

	lenSig := literal.NewSignature("len", []literal.Type{literal.String}, literal.Number)
	reg.RegisterFunction(&native.NativeCallback{
		Signature:  lenSig,
		ParamNames: []string{"s"},
		Invoke: func(ctx *native.CallCtx) native.Value {
			return native.Value{Type: literal.Number, Int: int64(len(ctx.Args[0].Str))}
		},
	})
	sigs[lenSig.Name] = lenSig

	uuidSig := literal.NewSignature("uuidnew", nil, literal.String)
	reg.RegisterFunction(&native.NativeCallback{
		Signature: uuidSig,
		Invoke: func(ctx *native.CallCtx) native.Value {
			return native.Value{Type: literal.String, Str: uuid.New().String()}
		},
	})
	sigs[uuidSig.Name] = uuidSig

	return reg, sigs
}

// build lowers src into a linked, ready-to-run program against a fresh
// Registry (native functions carry no state across lines in this demo).
func build(src string) (*endoapi.Program, error) {
	node, err := parseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	reg, sigs := newRegistry()

	b := endoapi.New()
	h := b.NewHandler("@main")
	b.SetHandler(h)
	entry := b.NewBlock("entry")
	b.SetBlock(entry)

	low := &lowerer{b: b, sigs: sigs}
	result, err := low.lower(node)
	if err != nil {
		return nil, err
	}

	slot := b.CreateAlloca("result", result.Type(), true)
	b.CreateStore(slot, result)
	b.CreateRet(true)

	irProg := b.Finish()

	report := diagnostics.NewBufferedReport()
	prog, err := endoapi.NewProgram(irProg, reg, report)
	if err != nil {
		for i := 0; i < report.Len(); i++ {
			fmt.Fprintln(os.Stderr, report.At(i))
		}
		return nil, err
	}
	return prog, nil
}

func formatValue(v native.Value) string {
	switch v.Type {
	case literal.Number:
		return fmt.Sprintf("%d", v.Int)
	case literal.String:
		return v.Str
	case literal.Boolean:
		return fmt.Sprintf("%t", v.Bool || v.Int != 0)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func evalLine(src string, disasm bool, quota int) {
	prog, err := build(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	if disasm {
		fmt.Println(prog.Disassemble())
	}
	if quota > 0 {
		prog.SetQuota(quota)
	}

	handled, err := prog.Run("@main")
	if err != nil {
		var qerr *vm.QuotaExceededError
		if errors.As(err, &qerr) {
			fmt.Fprintf(os.Stderr, "quota exceeded at IP %d\n", qerr.IP)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if !handled {
		fmt.Fprintln(os.Stderr, "program suspended without completing")
		return
	}
	fmt.Println(formatValue(prog.Globals().Get(0)))
}

func runREPL(disasm bool, quota int) {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("endo> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" || trimmed == ":q" {
			break
		}

		evalLine(trimmed, disasm, quota)
		ln.AppendHistory(line)
	}
}

func main() {
	disasm := flag.Bool("disasm", false, "print bytecode disassembly before running")
	quota := flag.Int("quota", 0, "finite instruction quota (0 = unlimited)")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		evalLine(strings.Join(args, " "), *disasm, *quota)
		return
	}

	runREPL(*disasm, *quota)
}
