// Package asmemit implements the stateful NASM writer (spec section 4.8):
// a single sink owning the open .asm file handle and the stem name,
// guaranteeing a flush on every exit path.
//
// Grounded in the teacher's file-owning components that guarantee
// flush-on-close via defer (ExecutionTrace/MemoryTrace/Statistics writer
// lifecycle in main.go: os.Create, deferred Close, error-checked Flush),
// adapted here into one emitter type instead of several trace-specific
// ones.
package asmemit

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Prologue is the fixed NASM preamble: data section constants and the
// log/puts helper routines, calling printf via the Windows x64 ABI
// (32-byte shadow space, first integer arg in rcx).
const Prologue = `BITS 64
global main
extern printf
segment .data
    fmt     db "%ld", 10, 0
    putc    db 0, 0
    putcf   db "%s", 0
segment .bss
    membuf  resb 640 * 1024
segment .text
log:
    sub     rsp, 32
    mov     rdx, rcx
    lea     rcx, [rel fmt]
    call    printf
    add     rsp, 32
    ret
puts:
    sub     rsp, 32
    mov     [rel putc], cl
    lea     rdx, [rel putc]
    lea     rcx, [rel putcf]
    call    printf
    add     rsp, 32
    ret
main:
`

// AsmEmitter owns the open .asm file and the stem (source filename minus
// extension and directories).
type AsmEmitter struct {
	stem string
	path string
	file *os.File
	w    *bufio.Writer

	closed bool
}

// New creates an AsmEmitter for the given stem, opening "<stem>.asm" and
// writing the fixed Prologue immediately.
func New(stem string) (*AsmEmitter, error) {
	path := stem + ".asm"
	f, err := os.Create(path) // #nosec G304 -- stem is derived from the user-supplied source path
	if err != nil {
		return nil, fmt.Errorf("asmemit: creating %s: %w", path, err)
	}

	e := &AsmEmitter{stem: stem, path: path, file: f, w: bufio.NewWriter(f)}
	e.write(Prologue)
	return e, nil
}

// Stem returns the output stem name (used by the caller to locate the
// .obj/.exe artifacts after assembling and linking).
func (e *AsmEmitter) Stem() string { return e.stem }

// Path returns the .asm file path.
func (e *AsmEmitter) Path() string { return e.path }

func (e *AsmEmitter) write(raw string) {
	io.WriteString(e.w, raw) //nolint:errcheck // buffered; surfaced at Close via Flush
}

// Code emits a single instruction, indented 4 spaces with a trailing LF.
func (e *AsmEmitter) Code(instruction string) {
	e.write("    " + instruction + "\n")
}

// Title emits a banner comment above a lowered op, matching the
// reference emitter's "    ;; -- comment --" form.
func (e *AsmEmitter) Title(comment string) {
	e.write(fmt.Sprintf("    ;; -- %s --\n", comment))
}

// Addr emits the per-instruction label addr_<ip>:.
func (e *AsmEmitter) Addr(ip int) {
	e.write(fmt.Sprintf("addr_%d:\n", ip))
}

// Lbl emits a numbered local label .L<i>: for intra-op branches such as
// the Puts byte-copy loop.
func (e *AsmEmitter) Lbl(i int) {
	e.write(fmt.Sprintf(".L%d:\n", i))
}

// Data emits a raw line at the current position; CodeGen uses it for
// string-literal byte arrays and the segment switches around them.
func (e *AsmEmitter) Data(raw string) {
	e.write(raw + "\n")
}

// Close flushes and closes the file. Only the first call does any work;
// later calls return nil, so it is safe to call on every exit path.
func (e *AsmEmitter) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.w.Flush(); err != nil {
		e.file.Close()
		return fmt.Errorf("asmemit: flushing %s: %w", e.path, err)
	}
	return e.file.Close()
}
