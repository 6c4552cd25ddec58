package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRetDecodedStructured(t *testing.T) {
	r := NewRet(`{"a":1}`).Decoded()

	if !r.Structured() {
		t.Fatal("expected structured ret")
	}
	want := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(r.Value(), want) {
		t.Fatalf("unexpected value: %#v", r.Value())
	}
	if r.Raw() != `{"a":1}` {
		t.Fatalf("raw string changed: %q", r.Raw())
	}
}

func TestRetDecodedPlainString(t *testing.T) {
	r := NewRet("not json").Decoded()

	if r.Structured() {
		t.Fatal("plain string must not be structured")
	}
	if r.Value() != "not json" {
		t.Fatalf("expected original string, got %#v", r.Value())
	}
}

func TestRetJSONRoundTrip(t *testing.T) {
	var resp ServiceResponse
	raw := `{"serviceName":"asset","method":"transfer","ret":"{\"ok\":true}","isError":false}`
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Unmarshal must not decode; interpretation is the pipeline's call.
	if resp.Ret.Structured() {
		t.Fatal("ret decoded during unmarshal")
	}
	if resp.Ret.Raw() != `{"ok":true}` {
		t.Fatalf("unexpected raw ret: %q", resp.Ret.Raw())
	}

	out, err := json.Marshal(resp.Ret)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"{\"ok\":true}"` {
		t.Fatalf("unexpected marshal output: %s", out)
	}
}

func TestRetUnmarshalConcrete(t *testing.T) {
	var got struct {
		Ok bool `json:"ok"`
	}
	if err := NewRet(`{"ok":true}`).Unmarshal(&got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Ok {
		t.Fatal("expected ok=true")
	}
	if err := NewRet("not json").Unmarshal(&got); err == nil {
		t.Fatal("expected error for concrete decode of non-JSON ret")
	}
}
