// Package ir lowers a type-checked Navi *ast.Program into an LLVM
// module (github.com/llir/llvm) suitable for handing to any backend
// that consumes LLVM IR. It is Navi's analogue of the original Rust
// prototype's inkwell-based codegen (original_source/compiler/src/codegen).
//
// Lowering assumes prog has already passed types.Check - it does not
// re-validate, only re-derives the type of each expression as it walks
// the tree, since the AST itself carries no type annotations.
package ir

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/skx/navi/ast"
)

// funcSig is the lowering pass's own copy of a function's signature,
// used to type-check calls structurally while lowering (the
// types.Checker's table is unexported and checking already happened).
type funcSig struct {
	params     []ast.Type
	returnType *ast.Type
	llFunc     *ir.Func
}

// Lowering holds module-wide state for one compilation unit.
type Lowering struct {
	module    *ir.Module
	runtime   *runtimeDecls
	functions map[string]*funcSig

	// gcHandle is the process-wide runtime handle, obtained once by
	// main via rt_init and threaded through every other function via
	// a module-level global (spec.md §6: "the handle... is expected to
	// be process-wide").
	gcHandle *ir.Global

	stringConsts map[string]*ir.Global // dedupes format/constant strings by content
	nextBlockID  int
}

// funcCtx is the per-function lowering state.
type funcCtx struct {
	fn    *ir.Func
	entry *ir.Block // every local's alloca lands here, per spec.md §4.4
	block *ir.Block

	slots      map[string]*ir.InstAlloca
	slotTypes  map[string]ast.Type
	returnType *ast.Type
	heapSlots  []string // names of let-declared slots holding string/array values, in declaration order
}

// Lower lowers a type-checked program into an LLVM module.
func Lower(prog *ast.Program) (*ir.Module, error) {
	mod := ir.NewModule()
	lw := &Lowering{
		module:       mod,
		runtime:      declareRuntime(mod),
		functions:    make(map[string]*funcSig),
		stringConsts: make(map[string]*ir.Global),
	}
	lw.gcHandle = mod.NewGlobalDef("navi_gc_handle", constant.NewNull(ptrType))

	// Pass 1: declare every function's LLVM signature before lowering
	// any body, so forward/mutually-recursive calls resolve.
	for _, fn := range prog.Functions {
		llRet := types.Type(types.Void)
		if fn.ReturnType != nil {
			llRet = navLLVMType(*fn.ReturnType)
		}
		if fn.Name == "main" {
			// main always has C-ABI signature `int main()`, independent
			// of whether the Navi source gives it a return type
			// (spec.md §4.4: "main without explicit return emits
			// return 0, target-int-width zero").
			llRet = nativeInt
		}

		params := make([]*ir.Param, len(fn.Parameters))
		for i, p := range fn.Parameters {
			params[i] = ir.NewParam(p.Name, navLLVMType(p.Type))
		}

		llFn := mod.NewFunc(fn.Name, llRet, params...)

		var paramTypes []ast.Type
		for _, p := range fn.Parameters {
			paramTypes = append(paramTypes, p.Type)
		}
		lw.functions[fn.Name] = &funcSig{params: paramTypes, returnType: fn.ReturnType, llFunc: llFn}
	}

	// Pass 2: lower every function body.
	for _, fn := range prog.Functions {
		if err := lw.lowerFunction(fn); err != nil {
			return nil, err
		}
	}

	return mod, nil
}

func (lw *Lowering) freshBlockName(prefix string) string {
	lw.nextBlockID++
	return fmt.Sprintf("%s.%d", prefix, lw.nextBlockID)
}

func (lw *Lowering) lowerFunction(fn *ast.Function) error {
	sig := lw.functions[fn.Name]
	llFn := sig.llFunc
	entry := llFn.NewBlock("entry")

	fctx := &funcCtx{
		fn:         llFn,
		entry:      entry,
		block:      entry,
		slots:      make(map[string]*ir.InstAlloca),
		slotTypes:  make(map[string]ast.Type),
		returnType: fn.ReturnType,
	}

	if fn.Name == "main" {
		gc := entry.NewCall(lw.runtime.rtInit)
		entry.NewStore(gc, lw.gcHandle)
	}

	for i, p := range fn.Parameters {
		slot := entry.NewAlloca(navLLVMType(p.Type))
		entry.NewStore(llFn.Params[i], slot)
		fctx.slots[p.Name] = slot
		fctx.slotTypes[p.Name] = p.Type
	}

	for _, stmt := range fn.Body.Statements {
		if err := lw.lowerStatement(fctx, stmt); err != nil {
			return fmt.Errorf("function %s: %w", fn.Name, err)
		}
	}

	if fctx.block.Term == nil {
		lw.emitRootCleanup(fctx)
		switch {
		case fn.Name == "main":
			fctx.block.NewRet(constant.NewInt(types.I64, 0))
		case fn.ReturnType == nil:
			fctx.block.NewRet(nil)
		default:
			return fmt.Errorf("function %s: missing return on a path reaching the end of the body", fn.Name)
		}
	}

	return nil
}

// emitRootCleanup un-registers every heap-typed local still live in
// fctx as a GC root, just before the function returns. This is a
// simplification of precise stack-map tracking: Navi has no nested
// heap-value lifetimes shorter than "for the rest of the function", so
// removing every known heap slot's current value at each return point
// is sound (see DESIGN.md, ir (lowering) section).
func (lw *Lowering) emitRootCleanup(fctx *funcCtx) {
	gc := fctx.block.NewLoad(ptrType, lw.gcHandle)
	for _, name := range fctx.heapSlots {
		slot := fctx.slots[name]
		val := fctx.block.NewLoad(navLLVMType(fctx.slotTypes[name]), slot)
		fctx.block.NewCall(lw.runtime.rtRemoveRoot, gc, val)
	}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (lw *Lowering) lowerStatement(fctx *funcCtx, stmt ast.Statement) error {
	switch st := stmt.(type) {
	case *ast.LetStatement:
		return lw.lowerLet(fctx, st)
	case *ast.AssignmentStatement:
		return lw.lowerAssignment(fctx, st)
	case *ast.ReturnStatement:
		return lw.lowerReturn(fctx, st)
	case *ast.ExpressionStatement:
		return lw.lowerExpressionStatement(fctx, st)
	case *ast.IfStatement:
		return lw.lowerIf(fctx, st)
	case *ast.ForStatement:
		return lw.lowerFor(fctx, st)
	default:
		return fmt.Errorf("internal error: unknown statement type %T", stmt)
	}
}

func (lw *Lowering) lowerLet(fctx *funcCtx, st *ast.LetStatement) error {
	var typ ast.Type
	var val value.Value
	var err error

	if arr, ok := st.Initializer.(*ast.ArrayLiteral); ok && len(arr.Elements) == 0 {
		typ = *st.Declared
		val, err = lw.lowerEmptyArray(fctx, typ)
	} else {
		val, typ, err = lw.lowerExpr(fctx, st.Initializer)
	}
	if err != nil {
		return err
	}

	// The alloca itself always lands in the entry block (spec.md §4.4);
	// only the store of its initial value runs in the current block, so
	// a `let` inside an `if`/`for` body still dominates every use/exit.
	slot := fctx.entry.NewAlloca(navLLVMType(typ))
	if typ.IsArray() || typ == ast.String {
		// Null until the let runs, so root cleanup on a path that never
		// reached this let removes nothing.
		fctx.entry.NewStore(constant.NewNull(ptrType), slot)
	}
	fctx.block.NewStore(val, slot)
	fctx.slots[st.Name] = slot
	fctx.slotTypes[st.Name] = typ

	if typ.IsArray() || typ == ast.String {
		fctx.heapSlots = append(fctx.heapSlots, st.Name)
		gc := fctx.block.NewLoad(ptrType, lw.gcHandle)
		fctx.block.NewCall(lw.runtime.rtAddRoot, gc, val)
	}
	return nil
}

func (lw *Lowering) lowerAssignment(fctx *funcCtx, st *ast.AssignmentStatement) error {
	slot, ok := fctx.slots[st.Name]
	if !ok {
		return fmt.Errorf("internal error: assignment to unknown slot %s", st.Name)
	}
	typ := fctx.slotTypes[st.Name]

	val, _, err := lw.lowerExpr(fctx, st.Value)
	if err != nil {
		return err
	}

	if typ.IsArray() || typ == ast.String {
		gc := fctx.block.NewLoad(ptrType, lw.gcHandle)
		old := fctx.block.NewLoad(ptrType, slot)
		fctx.block.NewCall(lw.runtime.rtRemoveRoot, gc, old)
		fctx.block.NewCall(lw.runtime.rtAddRoot, gc, val)
	}

	fctx.block.NewStore(val, slot)
	return nil
}

func (lw *Lowering) lowerReturn(fctx *funcCtx, st *ast.ReturnStatement) error {
	if st.Value == nil {
		lw.emitRootCleanup(fctx)
		if fctx.fn.Sig.RetType == nativeInt {
			// main with a bare `return;`
			fctx.block.NewRet(constant.NewInt(types.I64, 0))
			return nil
		}
		fctx.block.NewRet(nil)
		return nil
	}

	val, _, err := lw.lowerExpr(fctx, st.Value)
	if err != nil {
		return err
	}
	lw.emitRootCleanup(fctx)
	fctx.block.NewRet(val)
	return nil
}

func (lw *Lowering) lowerExpressionStatement(fctx *funcCtx, st *ast.ExpressionStatement) error {
	if call, ok := st.Value.(*ast.CallExpression); ok {
		if call.Function == "print" {
			return lw.lowerPrint(fctx, call)
		}
		return lw.lowerCallStatement(fctx, call)
	}
	_, _, err := lw.lowerExpr(fctx, st.Value)
	return err
}

func (lw *Lowering) lowerIf(fctx *funcCtx, st *ast.IfStatement) error {
	cond, _, err := lw.lowerExpr(fctx, st.Condition)
	if err != nil {
		return err
	}

	thenBlock := fctx.fn.NewBlock(lw.freshBlockName("if.then"))
	mergeBlock := fctx.fn.NewBlock(lw.freshBlockName("if.merge"))
	elseTarget := mergeBlock
	var elseBlock *ir.Block
	if st.Else != nil {
		elseBlock = fctx.fn.NewBlock(lw.freshBlockName("if.else"))
		elseTarget = elseBlock
	}

	fctx.block.NewCondBr(cond, thenBlock, elseTarget)

	fctx.block = thenBlock
	for _, stmt := range st.Then.Statements {
		if err := lw.lowerStatement(fctx, stmt); err != nil {
			return err
		}
	}
	if fctx.block.Term == nil {
		fctx.block.NewBr(mergeBlock)
	}

	if st.Else != nil {
		fctx.block = elseBlock
		for _, stmt := range st.Else.Statements {
			if err := lw.lowerStatement(fctx, stmt); err != nil {
				return err
			}
		}
		if fctx.block.Term == nil {
			fctx.block.NewBr(mergeBlock)
		}
	}

	fctx.block = mergeBlock
	return nil
}

func (lw *Lowering) lowerFor(fctx *funcCtx, st *ast.ForStatement) error {
	startVal, _, err := lw.lowerExpr(fctx, st.Start)
	if err != nil {
		return err
	}
	endVal, _, err := lw.lowerExpr(fctx, st.End)
	if err != nil {
		return err
	}

	slot := fctx.entry.NewAlloca(nativeInt)
	fctx.block.NewStore(startVal, slot)

	header := fctx.fn.NewBlock(lw.freshBlockName("for.header"))
	body := fctx.fn.NewBlock(lw.freshBlockName("for.body"))
	exit := fctx.fn.NewBlock(lw.freshBlockName("for.exit"))

	fctx.block.NewBr(header)

	fctx.block = header
	cur := header.NewLoad(nativeInt, slot)
	pred := enum.IPredSLT
	if st.Inclusive {
		pred = enum.IPredSLE
	}
	cond := header.NewICmp(pred, cur, endVal)
	header.NewCondBr(cond, body, exit)

	// The loop variable shadows any outer binding of the same name for
	// the duration of the body; restore the enclosing scope's view of
	// it on exit.
	savedSlot, hadSlot := fctx.slots[st.Var]
	savedType, hadType := fctx.slotTypes[st.Var]
	fctx.slots[st.Var] = slot
	fctx.slotTypes[st.Var] = ast.Int

	fctx.block = body
	for _, stmt := range st.Body.Statements {
		if err := lw.lowerStatement(fctx, stmt); err != nil {
			return err
		}
	}
	if fctx.block.Term == nil {
		loopCur := fctx.block.NewLoad(nativeInt, slot)
		next := fctx.block.NewAdd(loopCur, constant.NewInt(nativeInt, 1))
		fctx.block.NewStore(next, slot)
		fctx.block.NewBr(header)
	}

	if hadSlot {
		fctx.slots[st.Var] = savedSlot
	} else {
		delete(fctx.slots, st.Var)
	}
	if hadType {
		fctx.slotTypes[st.Var] = savedType
	} else {
		delete(fctx.slotTypes, st.Var)
	}

	fctx.block = exit
	return nil
}
