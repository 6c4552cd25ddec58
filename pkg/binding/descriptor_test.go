package binding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

func TestDescriptorKindExclusivity(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		isRead  bool
		isWrite bool
	}{
		{"read", Read(), true, false},
		{"write", Write(), false, true},
		{"zero value", Descriptor{}, false, false},
		{"read tag without transform", Descriptor{kind: kindRead}, false, false},
		{"write tag without transform", Descriptor{kind: kindWrite}, false, false},
		{"transform without recognized tag", Descriptor{readTransform: defaultReadTransform}, false, false},
		{"mismatched tag and transform", Descriptor{kind: kindRead, writeTransform: defaultWriteTransform}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.isRead, tt.d.IsRead())
			require.Equal(t, tt.isWrite, tt.d.IsWrite())
			require.False(t, tt.d.IsRead() && tt.d.IsWrite(), "kinds must be exclusive")
		})
	}
}

func TestDefaultReadTransformShaping(t *testing.T) {
	call := CallContext{ServiceName: "asset", Method: "get_balance"}

	param, err := defaultReadTransform(call, map[string]any{"address": "0xabc"})
	require.NoError(t, err)
	require.Equal(t, types.QueryServiceParam{
		ServiceName: "asset",
		Method:      "get_balance",
		Payload:     `{"address":"0xabc"}`,
	}, param)
}

func TestPayloadString(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"nil", nil, ""},
		{"string passthrough", `{"raw":true}`, `{"raw":true}`},
		{"bytes passthrough", []byte("abc"), "abc"},
		{"struct marshaled", struct {
			To string `json:"to"`
		}{To: "0xdef"}, `{"to":"0xdef"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := payloadString(tt.payload)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPayloadStringRejectsUnmarshalable(t *testing.T) {
	_, err := payloadString(func() {})
	require.Error(t, err)
}

func TestCustomReadTransform(t *testing.T) {
	height := types.Uint64(7)
	d := Read(WithReadTransform(func(call CallContext, payload any) (types.QueryServiceParam, error) {
		return types.QueryServiceParam{
			ServiceName: call.ServiceName,
			Method:      call.Method,
			Payload:     "fixed",
			Height:      &height,
		}, nil
	}))
	require.True(t, d.IsRead())

	param, err := d.readTransform(CallContext{ServiceName: "s", Method: "m"}, nil)
	require.NoError(t, err)
	require.Equal(t, "fixed", param.Payload)
	require.Equal(t, &height, param.Height)
}

func TestCustomWriteTransformSkipsComposer(t *testing.T) {
	want := types.RawTransaction{ServiceName: "s", Method: "m", Payload: "p", Timeout: 9}
	d := Write(WithWriteTransform(func(ctx context.Context, call CallContext, composer Composer, payload any) (types.RawTransaction, error) {
		return want, nil
	}))
	require.True(t, d.IsWrite())

	got, err := d.writeTransform(context.Background(), CallContext{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
