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

// lowerExpr lowers expr to an LLVM value, returning the Navi type it
// produces alongside it - lowering re-derives types structurally since
// the AST carries none (the type checker validated, but did not
// annotate, the tree).
func (lw *Lowering) lowerExpr(fctx *funcCtx, expr ast.Expression) (value.Value, ast.Type, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return constant.NewInt(nativeInt, e.Value), ast.Int, nil
	case *ast.FloatLiteral:
		return constant.NewFloat(types.Double, e.Value), ast.Float, nil
	case *ast.BooleanLiteral:
		if e.Value {
			return constant.True, ast.Bool, nil
		}
		return constant.False, ast.Bool, nil
	case *ast.StringLiteral:
		return lw.lowerStringLiteral(fctx, e.Value)
	case *ast.Identifier:
		slot, ok := fctx.slots[e.Name]
		if !ok {
			return nil, "", fmt.Errorf("internal error: reference to unknown slot %s", e.Name)
		}
		typ := fctx.slotTypes[e.Name]
		return fctx.block.NewLoad(navLLVMType(typ), slot), typ, nil
	case *ast.BinaryExpression:
		return lw.lowerBinary(fctx, e)
	case *ast.CallExpression:
		return lw.lowerCall(fctx, e)
	case *ast.ArrayLiteral:
		return lw.lowerArrayLiteral(fctx, e)
	case *ast.IndexExpression:
		return lw.lowerIndex(fctx, e)
	default:
		return nil, "", fmt.Errorf("internal error: unknown expression type %T", expr)
	}
}

// lowerStringLiteral materializes a Navi string constant at runtime:
// the byte content is emitted as an LLVM global array, then
// rt_alloc_string copies it into a GC-managed heap object. Generated
// code never treats the global itself as the string value - only the
// runtime-owned header pointer rt_alloc_string returns is.
func (lw *Lowering) lowerStringLiteral(fctx *funcCtx, s string) (value.Value, ast.Type, error) {
	dataPtr, arrType := lw.globalBytes(s)
	zero := constant.NewInt(types.I64, 0)
	bytesPtr := fctx.block.NewGetElementPtr(arrType, dataPtr, zero, zero)
	size := constant.NewInt(sizeType, int64(len(s)))
	obj := fctx.block.NewCall(lw.runtime.rtAllocString, bytesPtr, size)
	return obj, ast.String, nil
}

// globalBytes memoizes (by content) a module-level global holding s's
// raw bytes, with no implicit NUL terminator - Navi strings are not
// C strings (spec.md §3).
func (lw *Lowering) globalBytes(s string) (*ir.Global, *types.ArrayType) {
	if g, ok := lw.stringConsts[s]; ok {
		return g, g.Typ.ElemType.(*types.ArrayType)
	}
	data := constant.NewCharArrayFromString(s)
	name := fmt.Sprintf(".str.%d", len(lw.stringConsts))
	g := lw.module.NewGlobalDef(name, data)
	lw.stringConsts[s] = g
	return g, data.Typ
}

func (lw *Lowering) lowerBinary(fctx *funcCtx, e *ast.BinaryExpression) (value.Value, ast.Type, error) {
	left, leftType, err := lw.lowerExpr(fctx, e.Left)
	if err != nil {
		return nil, "", err
	}
	right, _, err := lw.lowerExpr(fctx, e.Right)
	if err != nil {
		return nil, "", err
	}

	isFloat := leftType == ast.Float

	switch e.Op {
	case ast.OpAdd:
		if isFloat {
			return fctx.block.NewFAdd(left, right), ast.Float, nil
		}
		return fctx.block.NewAdd(left, right), ast.Int, nil
	case ast.OpSub:
		if isFloat {
			return fctx.block.NewFSub(left, right), ast.Float, nil
		}
		return fctx.block.NewSub(left, right), ast.Int, nil
	case ast.OpMul:
		if isFloat {
			return fctx.block.NewFMul(left, right), ast.Float, nil
		}
		return fctx.block.NewMul(left, right), ast.Int, nil
	case ast.OpDiv:
		if isFloat {
			return fctx.block.NewFDiv(left, right), ast.Float, nil
		}
		return fctx.block.NewSDiv(left, right), ast.Int, nil
	case ast.OpEq:
		if isFloat {
			return fctx.block.NewFCmp(enum.FPredOEQ, left, right), ast.Bool, nil
		}
		return fctx.block.NewICmp(enum.IPredEQ, left, right), ast.Bool, nil
	case ast.OpNeq:
		if isFloat {
			return fctx.block.NewFCmp(enum.FPredONE, left, right), ast.Bool, nil
		}
		return fctx.block.NewICmp(enum.IPredNE, left, right), ast.Bool, nil
	case ast.OpLt:
		if isFloat {
			return fctx.block.NewFCmp(enum.FPredOLT, left, right), ast.Bool, nil
		}
		return fctx.block.NewICmp(enum.IPredSLT, left, right), ast.Bool, nil
	case ast.OpGt:
		if isFloat {
			return fctx.block.NewFCmp(enum.FPredOGT, left, right), ast.Bool, nil
		}
		return fctx.block.NewICmp(enum.IPredSGT, left, right), ast.Bool, nil
	case ast.OpLte:
		if isFloat {
			return fctx.block.NewFCmp(enum.FPredOLE, left, right), ast.Bool, nil
		}
		return fctx.block.NewICmp(enum.IPredSLE, left, right), ast.Bool, nil
	case ast.OpGte:
		if isFloat {
			return fctx.block.NewFCmp(enum.FPredOGE, left, right), ast.Bool, nil
		}
		return fctx.block.NewICmp(enum.IPredSGE, left, right), ast.Bool, nil
	default:
		return nil, "", fmt.Errorf("internal error: unknown operator %s", e.Op)
	}
}

func (lw *Lowering) lowerCall(fctx *funcCtx, e *ast.CallExpression) (value.Value, ast.Type, error) {
	sig, ok := lw.functions[e.Function]
	if !ok {
		return nil, "", fmt.Errorf("internal error: call to undeclared function %s", e.Function)
	}

	args := make([]value.Value, len(e.Args))
	for i, argExpr := range e.Args {
		v, _, err := lw.lowerExpr(fctx, argExpr)
		if err != nil {
			return nil, "", err
		}
		args[i] = v
	}

	call := fctx.block.NewCall(sig.llFunc, args...)
	if sig.returnType == nil {
		return nil, "", fmt.Errorf("internal error: call to void function %s used as a value", e.Function)
	}
	return call, *sig.returnType, nil
}

// lowerCallStatement lowers a call used as a statement, where a void
// return is fine since the result (if any) is discarded - matching
// types.checkExpressionStatement/checkCallArgs, which allow exactly
// this per original_source/src/typechecker/mod.rs's
// check_expression_statement ("void function calls also allowed").
// lowerCall (used from lowerExpr) keeps rejecting a void call used as
// a sub-expression value.
func (lw *Lowering) lowerCallStatement(fctx *funcCtx, e *ast.CallExpression) error {
	sig, ok := lw.functions[e.Function]
	if !ok {
		return fmt.Errorf("internal error: call to undeclared function %s", e.Function)
	}

	args := make([]value.Value, len(e.Args))
	for i, argExpr := range e.Args {
		v, _, err := lw.lowerExpr(fctx, argExpr)
		if err != nil {
			return err
		}
		args[i] = v
	}

	fctx.block.NewCall(sig.llFunc, args...)
	return nil
}

func (lw *Lowering) lowerArrayLiteral(fctx *funcCtx, e *ast.ArrayLiteral) (value.Value, ast.Type, error) {
	if len(e.Elements) == 0 {
		return nil, "", fmt.Errorf("internal error: empty array literal reached lowering without a declared type")
	}

	first, elemType, err := lw.lowerExpr(fctx, e.Elements[0])
	if err != nil {
		return nil, "", err
	}
	elems := []value.Value{first}
	for _, elExpr := range e.Elements[1:] {
		v, _, err := lw.lowerExpr(fctx, elExpr)
		if err != nil {
			return nil, "", err
		}
		elems = append(elems, v)
	}

	kind := elemKindOf(elemType)
	gc := fctx.block.NewLoad(ptrType, lw.gcHandle)
	capacity := constant.NewInt(sizeType, int64(len(elems)))
	arr := fctx.block.NewCall(lw.runtime.allocArray[kind], gc, capacity)

	for i, v := range elems {
		idx := constant.NewInt(sizeType, int64(i))
		fctx.block.NewCall(lw.runtime.arraySet[kind], arr, idx, v)
	}

	return arr, ast.ArrayOf(elemType), nil
}

// lowerEmptyArray lowers `let xs: T[] = []` - a zero-capacity array of
// the declared element type, with no elements to set.
func (lw *Lowering) lowerEmptyArray(fctx *funcCtx, arrType ast.Type) (value.Value, error) {
	kind := elemKindOf(arrType.ElementType())
	gc := fctx.block.NewLoad(ptrType, lw.gcHandle)
	zero := constant.NewInt(sizeType, 0)
	arr := fctx.block.NewCall(lw.runtime.allocArray[kind], gc, zero)
	return arr, nil
}

func (lw *Lowering) lowerIndex(fctx *funcCtx, e *ast.IndexExpression) (value.Value, ast.Type, error) {
	arr, arrType, err := lw.lowerExpr(fctx, e.Left)
	if err != nil {
		return nil, "", err
	}
	idxVal, idxType, err := lw.lowerExpr(fctx, e.Index)
	if err != nil {
		return nil, "", err
	}
	if idxType != ast.Int {
		return nil, "", fmt.Errorf("internal error: array index of non-int type %s reached lowering", idxType)
	}

	elemType := arrType.ElementType()
	kind := elemKindOf(elemType)
	val := fctx.block.NewCall(lw.runtime.arrayGet[kind], arr, idxVal)
	return val, elemType, nil
}
