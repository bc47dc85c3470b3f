package ir

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/skx/navi/ast"
)

// lowerPrint lowers `print(a, b, ...)` into a sequence of calls, one
// per argument, per spec.md §5: every argument but the last is
// followed by a single space, the last by a newline. Strings route
// through rt_print_string (they are not NUL-terminated, so a raw
// printf("%s", ...) would read past the end); every other type is
// formatted with a printf call whose format string already carries
// the trailing separator.
func (lw *Lowering) lowerPrint(fctx *funcCtx, call *ast.CallExpression) error {
	for i, argExpr := range call.Args {
		val, typ, err := lw.lowerExpr(fctx, argExpr)
		if err != nil {
			return err
		}
		last := i == len(call.Args)-1
		sep := " "
		if last {
			sep = "\n"
		}

		switch typ {
		case ast.Int:
			fmtPtr := lw.globalCString(fctx, "%lld"+sep)
			fctx.block.NewCall(lw.runtime.printf, fmtPtr, val)
		case ast.Float:
			fmtPtr := lw.globalCString(fctx, "%g"+sep)
			fctx.block.NewCall(lw.runtime.printf, fmtPtr, val)
		case ast.Bool:
			trueStr := lw.globalCString(fctx, "true")
			falseStr := lw.globalCString(fctx, "false")
			selected := fctx.block.NewSelect(val, trueStr, falseStr)
			fmtPtr := lw.globalCString(fctx, "%s"+sep)
			fctx.block.NewCall(lw.runtime.printf, fmtPtr, selected)
		case ast.String:
			fctx.block.NewCall(lw.runtime.rtPrintString, val)
			fmtPtr := lw.globalCString(fctx, sep)
			fctx.block.NewCall(lw.runtime.printf, fmtPtr)
		default:
			if !typ.IsArray() {
				return fmt.Errorf("internal error: print of unsupported type %s reached lowering", typ)
			}
			fmtPtr := lw.globalCString(fctx, "[array@%p]"+sep)
			fctx.block.NewCall(lw.runtime.printf, fmtPtr, val)
		}
	}
	return nil
}

// globalCString memoizes (by content) a module-level NUL-terminated
// byte-array global and emits, into fctx's current block, a GEP
// yielding a pointer to its first byte - suitable for passing to
// printf as a `const char *`.
func (lw *Lowering) globalCString(fctx *funcCtx, s string) value.Value {
	g, arrType := lw.globalBytes(s + "\x00")
	zero := constant.NewInt(types.I64, 0)
	return fctx.block.NewGetElementPtr(arrType, g, zero, zero)
}
