package workflows

import (
	"context"
	"fmt"
)

// Operation is one of ListOp, CloneOp, CheckOp, SetOp or RemoveOp.
type Operation interface {
	operation()
}

type ListOp struct{ Options ListOptions }

type CloneOp struct{}

type CheckOp struct{}

type SetOp struct{ Options SetOptions }

type RemoveOp struct{ Options RemoveOptions }

func (ListOp) operation()   {}
func (CloneOp) operation()  {}
func (CheckOp) operation()  {}
func (SetOp) operation()    {}
func (RemoveOp) operation() {}

// Run dispatches op to its workflow. The returned value is the workflow's
// result: *ListResult, *CloneResult, *CheckResult, *SetResult or *RemoveResult.
func Run(ctx context.Context, v *Vault, auth Authorization, op Operation) (any, error) {
	switch op := op.(type) {
	case ListOp:
		return List(ctx, v, auth, op.Options)
	case CloneOp:
		return Clone(ctx, v, auth)
	case CheckOp:
		return Check(ctx, v, auth)
	case SetOp:
		return Set(ctx, v, auth, op.Options)
	case RemoveOp:
		return Remove(ctx, v, auth, op.Options)
	default:
		return nil, fmt.Errorf("unknown operation %T", op)
	}
}
