package ctxutil

import "context"

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type traceDataKey struct{}
type staffDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// StaffData identifies the safeguarding staff member behind a review request.
type StaffData struct {
	ReviewerID string
	Role       string
}

func WithStaffData(ctx context.Context, sd *StaffData) context.Context {
	return context.WithValue(ctx, staffDataKey{}, sd)
}

func GetStaffData(ctx context.Context) *StaffData {
	if ctx == nil {
		return nil
	}
	if sd, ok := ctx.Value(staffDataKey{}).(*StaffData); ok {
		return sd
	}
	return nil
}
