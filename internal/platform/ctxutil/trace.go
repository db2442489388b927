package ctxutil

import "context"

type traceDataKey struct{}

// TraceData identifies one inbound request. Route is the matched route
// template, not the raw path, so it is safe to use as a log field.
type TraceData struct {
	TraceID   string
	RequestID string
	Route     string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// LogFields returns the request's correlation ids as key/value pairs for a
// structured logger. Empty when ctx carries no trace data.
func LogFields(ctx context.Context) []interface{} {
	td := GetTraceData(ctx)
	if td == nil {
		return nil
	}
	var out []interface{}
	if td.RequestID != "" {
		out = append(out, "request_id", td.RequestID)
	}
	if td.TraceID != "" {
		out = append(out, "trace_id", td.TraceID)
	}
	if td.Route != "" {
		out = append(out, "route", td.Route)
	}
	return out
}
