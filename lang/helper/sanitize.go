package helper

import (
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ardnew/hbind/lang/bind"
)

//nolint:gochecknoglobals
var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugcPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})

	return policy
}

// sanitize prints its argument as HTML with unsafe elements and attributes
// removed. Values that are not strings are printed in their default format
// first.
func (r *Registry) sanitize(ctx *bind.Context, args []any) error {
	if err := arity("sanitize", args, 1); err != nil {
		return err
	}

	var s string

	switch v := args[0].(type) {
	case nil, bind.UndefinedBinding:
		return nil

	case string:
		s = v

	default:
		s = fmt.Sprint(v)
	}

	return r.write(ctx.Output(), ugcPolicy().Sanitize(s))
}
