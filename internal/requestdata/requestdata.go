package requestdata

import (
	"context"

	"github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData carries the already-authenticated identity for one request.
// Every core operation trusts this pair; no further auth happens downstream.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	TenantID    uuid.UUID
	BranchID    uuid.UUID
}
