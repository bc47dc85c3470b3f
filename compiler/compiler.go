// The compiler-package contains the core of our compiler.
//
// In brief we go through a four-step process:
//
//  1.  Parse the source text into an AST (the lexer runs underneath
//      the parser, on demand - there is no separate tokenize step).
//
//  2.  Type-check the AST: resolve identifiers, infer let-binding
//      types, check call arity/types.
//
//  3.  Lower the checked AST to a typed IR (github.com/llir/llvm),
//      with explicit basic blocks and runtime ABI calls.
//
//  4.  Verify the lowered module before handing it to a backend.
//
package compiler

import (
	"fmt"

	llvmir "github.com/llir/llvm/ir"

	"github.com/skx/navi/ir"
	"github.com/skx/navi/parser"
	"github.com/skx/navi/types"
)

// Compiler holds our object-state.
type Compiler struct {
	// debug holds a flag to decide if a debugging comment line (naming
	// the number of functions in the verified module) is prefixed to the
	// compiled output.
	debug bool

	// source holds the Navi program text we're compiling.
	source string

	// module holds the lowered, verified LLVM module once Compile has
	// run successfully - nil beforehand.
	module *llvmir.Module
}

//
// Our public API consists of the four functions:
//  New
//  SetDebug
//  Compile
//  Module
//
// The rest of the code is an implementation detail.
//

// New creates a new compiler, given the Navi source in the constructor.
func New(input string) *Compiler {
	c := &Compiler{source: input}
	return c
}

// SetDebug changes the debug-flag for our output.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// Compile converts the input program into a textual LLVM IR module
// ready for an external backend to assemble and link.
func (c *Compiler) Compile() (string, error) {
	prog, errs := parser.ParseProgram(c.source)
	if len(errs) != 0 {
		return "", fmt.Errorf("parse error: %s", errs[0])
	}

	if err := types.Check(prog); err != nil {
		return "", fmt.Errorf("type error: %w", err)
	}

	mod, err := ir.Lower(prog)
	if err != nil {
		return "", fmt.Errorf("lowering error: %w", err)
	}

	if err := ir.Verify(mod); err != nil {
		return "", fmt.Errorf("verification error: %w", err)
	}

	c.module = mod

	out := mod.String()
	if c.debug {
		out = "; --- debug: module verified, " + fmt.Sprintf("%d functions", len(mod.Funcs)) + " ---\n" + out
	}
	return out, nil
}

// Module returns the lowered LLVM module from the most recent
// successful Compile call, or nil if Compile has not yet succeeded.
func (c *Compiler) Module() *llvmir.Module {
	return c.module
}
