package repl

import (
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/eval"
	"github.com/sunholo/ailang/internal/link"
	"github.com/sunholo/ailang/internal/runtime"
)

// compositeResolver chains the REPL's two resolution sources: builtins first
// (matching BuiltinOnlyResolver's existing nil,nil-means-keep-trying
// contract), then the live module binding graph, which is the terminal
// authority here — there is no compiled-unit cache to fall back to next, so
// runtimeModules.ResolveValue's errors (undefined var, deprecated use) are
// returned to the caller rather than swallowed.
type compositeResolver struct {
	builtins *runtime.BuiltinOnlyResolver
	modules  *link.RuntimeModules
}

func (r *compositeResolver) ResolveValue(ref core.GlobalRef) (eval.Value, error) {
	if val, err := r.builtins.ResolveValue(ref); err != nil || val != nil {
		return val, err
	}
	return r.modules.ResolveValue(ref)
}
