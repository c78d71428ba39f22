package trace

import "context"

// carried is what a context holds: the tracer and the innermost open span.
type carried struct {
	tracer Tracer
	parent uint64
}

type ctxKey struct{}

func fromCtx(ctx context.Context) carried {
	if ctx != nil {
		if c, ok := ctx.Value(ctxKey{}).(carried); ok {
			return c
		}
	}
	return carried{tracer: Nop}
}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer { return fromCtx(ctx).tracer }

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := fromCtx(ctx)
	c.tracer = t
	return context.WithValue(ctx, ctxKey{}, c)
}

// ParentSpan returns the span id stored by WithParentSpan, or 0.
func ParentSpan(ctx context.Context) uint64 { return fromCtx(ctx).parent }

func WithParentSpan(ctx context.Context, id uint64) context.Context {
	c := fromCtx(ctx)
	c.parent = id
	return context.WithValue(ctx, ctxKey{}, c)
}
