package logging

import (
	"context"

	"github.com/abczzz13/realip"
)

const clientHolderKey contextKey = "realipd_client_holder"

// clientHolder carries the resolution from inner middleware back out to the
// access log. It is written once per request by CaptureClient.
type clientHolder struct {
	res realip.Resolution
}

func withClientHolder(ctx context.Context, holder *clientHolder) context.Context {
	return context.WithValue(ctx, clientHolderKey, holder)
}

func clientHolderFromContext(ctx context.Context) *clientHolder {
	holder, _ := ctx.Value(clientHolderKey).(*clientHolder)
	return holder
}
