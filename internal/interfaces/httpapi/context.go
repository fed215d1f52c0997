package httpapi

import "context"

type contextKey int

const (
	userIDKey contextKey = iota
	requestMetaKey
)

// requestMeta is shared by reference between the outer logging middleware and
// inner handlers, so values learned deep in the chain reach the access log.
type requestMeta struct {
	requestID string
	userID    string
	route     string
}

func withRequestMeta(ctx context.Context, meta *requestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, meta)
}

func requestMetaFromContext(ctx context.Context) *requestMeta {
	meta, _ := ctx.Value(requestMetaKey).(*requestMeta)
	return meta
}

func withUserID(ctx context.Context, userID string) context.Context {
	if meta := requestMetaFromContext(ctx); meta != nil {
		meta.userID = userID
	}
	return context.WithValue(ctx, userIDKey, userID)
}

func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
