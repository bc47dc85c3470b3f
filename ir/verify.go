package ir

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// Verify walks a lowered module and checks the structural invariants
// spec.md §4.4 requires of it before handoff to a backend. llir/llvm
// itself ships no verifier (unlike LLVM's own C++ API), so this is a
// small hand-rolled one covering exactly what this lowering pass can
// get wrong: every basic block must end in a terminator and must be
// reachable from its function's entry block, and every function with a
// declaration-only body (an external runtime function) is exempt.
func Verify(mod *ir.Module) error {
	for _, fn := range mod.Funcs {
		if len(fn.Blocks) == 0 {
			// A declaration (e.g. printf, rt_init): nothing to verify.
			continue
		}
		for _, block := range fn.Blocks {
			if block.Term == nil {
				return fmt.Errorf("function %s: basic block %s has no terminator", fn.Name(), block.Name())
			}
		}
		if err := verifyEntryReachesReturn(fn); err != nil {
			return fmt.Errorf("function %s: %w", fn.Name(), err)
		}
	}
	return nil
}

// verifyEntryReachesReturn is a conservative reachability check: every
// block reachable from the entry block must itself be well-formed
// (already guaranteed by the terminator check above); this additionally
// catches a lowering bug where a block was created but never wired
// into the control-flow graph with a branch from some reachable
// predecessor, which would otherwise silently produce dead IR that
// never executes.
func verifyEntryReachesReturn(fn *ir.Func) error {
	if len(fn.Blocks) == 0 {
		return nil
	}
	reachable := map[string]bool{}
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		name := b.Name()
		if reachable[name] {
			return
		}
		reachable[name] = true
		for _, succ := range successors(b) {
			walk(succ)
		}
	}
	walk(fn.Blocks[0])

	for _, b := range fn.Blocks {
		if !reachable[b.Name()] {
			return fmt.Errorf("basic block %s is unreachable from entry", b.Name())
		}
	}
	return nil
}

// successors returns the basic blocks b's terminator may transfer
// control to.
func successors(b *ir.Block) []*ir.Block {
	switch term := b.Term.(type) {
	case *ir.TermBr:
		return []*ir.Block{term.Target}
	case *ir.TermCondBr:
		return []*ir.Block{term.TargetTrue, term.TargetFalse}
	default:
		return nil
	}
}
