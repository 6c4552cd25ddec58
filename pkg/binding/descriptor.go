package binding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// kind discriminates descriptor variants. The zero value is deliberately not
// a valid kind: a zero Descriptor binds nothing.
type kind uint8

const (
	kindInvalid kind = iota
	kindRead
	kindWrite
)

// CallContext names the service method a transform is shaping a payload for.
type CallContext struct {
	ServiceName string
	Method      string
}

// ReadTransform shapes a payload into query parameters. The default transform
// produces {serviceName, method, payload}; custom transforms may override any
// part of the parameter set and are free to ignore call.
type ReadTransform func(call CallContext, payload any) (types.QueryServiceParam, error)

// WriteTransform composes a payload into a raw transaction. The default
// transform delegates to the composer with {serviceName, method, payload};
// custom transforms may build the transaction themselves (for example with a
// fixed timeout for offline flows) and skip the composer entirely.
type WriteTransform func(ctx context.Context, call CallContext, composer Composer, payload any) (types.RawTransaction, error)

// Descriptor declares one service method: its kind (read or write) and the
// transform that shapes call payloads. Construct with Read or Write; a
// Descriptor built any other way is classified as neither and skipped at
// bind time.
type Descriptor struct {
	kind           kind
	readTransform  ReadTransform
	writeTransform WriteTransform
}

// ReadOption customizes a read descriptor.
type ReadOption func(*Descriptor)

// WithReadTransform replaces the default query shaping.
func WithReadTransform(t ReadTransform) ReadOption {
	return func(d *Descriptor) { d.readTransform = t }
}

// Read declares a read-only method. Without options the payload is shaped as
// {serviceName, method, payload}.
func Read(opts ...ReadOption) Descriptor {
	d := Descriptor{kind: kindRead, readTransform: defaultReadTransform}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WriteOption customizes a write descriptor.
type WriteOption func(*Descriptor)

// WithWriteTransform replaces the default transaction composition.
func WithWriteTransform(t WriteTransform) WriteOption {
	return func(d *Descriptor) { d.writeTransform = t }
}

// Write declares a state-mutating method. Without options composition
// delegates to the transport's composer with {serviceName, method, payload}.
func Write(opts ...WriteOption) Descriptor {
	d := Descriptor{kind: kindWrite, writeTransform: defaultWriteTransform}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// IsRead classifies structurally: the descriptor must carry both the read
// discriminant and a read transform.
func (d Descriptor) IsRead() bool {
	return d.kind == kindRead && d.readTransform != nil
}

// IsWrite classifies structurally: the descriptor must carry both the write
// discriminant and a write transform.
func (d Descriptor) IsWrite() bool {
	return d.kind == kindWrite && d.writeTransform != nil
}

// ServiceModel maps method names to their descriptors. Keys are unique by
// construction; iteration order is irrelevant to binding.
type ServiceModel map[string]Descriptor

func defaultReadTransform(call CallContext, payload any) (types.QueryServiceParam, error) {
	p, err := payloadString(payload)
	if err != nil {
		return types.QueryServiceParam{}, err
	}
	return types.QueryServiceParam{
		ServiceName: call.ServiceName,
		Method:      call.Method,
		Payload:     p,
	}, nil
}

func defaultWriteTransform(ctx context.Context, call CallContext, composer Composer, payload any) (types.RawTransaction, error) {
	p, err := payloadString(payload)
	if err != nil {
		return types.RawTransaction{}, err
	}
	return composer.ComposeTransaction(ctx, types.ComposeTransactionParam{
		ServiceName: call.ServiceName,
		Method:      call.Method,
		Payload:     p,
	})
}

// payloadString normalizes heterogeneous payload values into the string the
// chain expects: strings pass through, nil becomes empty, everything else is
// marshaled to JSON.
func payloadString(payload any) (string, error) {
	switch v := payload.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode payload: %w", err)
		}
		return string(raw), nil
	}
}
