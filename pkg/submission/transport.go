package submission

import "context"

// Transport dispatches the serialized payload and reports the response status
// code. A non-nil error means the request did not complete.
type Transport interface {
	Post(ctx context.Context, body []byte) (int, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, body []byte) (int, error)

// Post calls fn.
func (fn TransportFunc) Post(ctx context.Context, body []byte) (int, error) {
	return fn(ctx, body)
}
