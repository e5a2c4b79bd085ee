package grpcx

import (
	"context"

	"github.com/md-rashed-zaman/interviewbook/libs/httpx"
	"google.golang.org/grpc/metadata"
)

// RequestIDMetadataKey is the lowercase form of the HTTP request id header.
const RequestIDMetadataKey = "x-request-id"

// RequestIDFromContext reads the id stored by either transport.
func RequestIDFromContext(ctx context.Context) string {
	return httpx.RequestIDFromContext(ctx)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return httpx.ContextWithRequestID(ctx, id)
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(RequestIDMetadataKey) {
		if httpx.ValidRequestID(v) {
			return v
		}
	}
	return ""
}
