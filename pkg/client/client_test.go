package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muta-dev/muta-sdk-go/pkg/config"
	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// gqlRequest is the wire shape of a GraphQL POST body.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestClient starts a GraphQL stub that routes by operation name and
// records every request it sees.
func newTestClient(t *testing.T, handlers map[string]any) (*Client, *[]gqlRequest) {
	t.Helper()

	var seen []gqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req gqlRequest
		require.NoError(t, json.Unmarshal(body, &req))
		seen = append(seen, req)

		for op, data := range handlers {
			if strings.Contains(req.Query, op) {
				resp := map[string]any{"data": map[string]any{op: data}}
				require.NoError(t, json.NewEncoder(w).Encode(resp))
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "unknown operation"}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{Endpoint: srv.URL}
	require.NoError(t, cfg.Validate())

	return NewClient(cfg, WithHTTPClient(srv.Client())), &seen
}

func TestQueryServiceDyn(t *testing.T) {
	c, seen := newTestClient(t, map[string]any{
		"queryService": map[string]any{"ret": `{"balance":42}`, "isError": false},
	})

	resp, err := c.QueryServiceDyn(context.Background(), types.QueryServiceParam{
		ServiceName: "asset",
		Method:      "get_balance",
		Payload:     `{"address":"0xabc"}`,
	})
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	vars := (*seen)[0].Variables
	require.Equal(t, "asset", vars["serviceName"])
	require.Equal(t, "get_balance", vars["method"])
	require.Equal(t, `{"address":"0xabc"}`, vars["payload"])

	require.Equal(t, "asset", resp.ServiceName)
	require.Equal(t, "get_balance", resp.Method)
	require.False(t, resp.IsError)
	require.True(t, resp.Ret.Structured())
	require.Equal(t, map[string]any{"balance": float64(42)}, resp.Ret.Value())
}

func TestQueryServiceDynValidates(t *testing.T) {
	c, seen := newTestClient(t, nil)

	_, err := c.QueryServiceDyn(context.Background(), types.QueryServiceParam{Method: "m"})
	require.Error(t, err)
	require.Empty(t, *seen, "invalid params must not reach the wire")
}

func TestQueryServiceDynErrorResponseNotDecoded(t *testing.T) {
	c, _ := newTestClient(t, map[string]any{
		"queryService": map[string]any{"ret": "asset not found", "isError": true},
	})

	resp, err := c.QueryServiceDyn(context.Background(), types.QueryServiceParam{
		ServiceName: "asset",
		Method:      "get_asset",
		Payload:     "{}",
	})
	require.NoError(t, err)
	require.True(t, resp.IsError)
	require.False(t, resp.Ret.Structured())
	require.Equal(t, "asset not found", resp.Ret.Raw())
}

func TestComposeTransaction(t *testing.T) {
	c, seen := newTestClient(t, map[string]any{
		"getBlock": map[string]any{
			"hash":   "0x" + strings.Repeat("11", 32),
			"header": map[string]any{"height": "0x64", "chainId": config.DefaultChainID},
		},
	})

	tx, err := c.ComposeTransaction(context.Background(), types.ComposeTransactionParam{
		ServiceName: "asset",
		Method:      "transfer",
		Payload:     `{"to":"0xdef","value":10}`,
	})
	require.NoError(t, err)

	require.Len(t, *seen, 1, "compose makes exactly one network call")
	require.Equal(t, types.Hash(config.DefaultChainID), tx.ChainID)
	require.Equal(t, types.Uint64(0x64+20), tx.Timeout, "timeout = height + gap")
	require.Equal(t, types.Uint64(0xffffff), tx.CyclesLimit)
	require.Equal(t, types.Uint64(1), tx.CyclesPrice)
	require.NoError(t, tx.Nonce.Validate())
	require.Equal(t, "asset", tx.ServiceName)
	require.Equal(t, "transfer", tx.Method)
}

func TestComposeTransactionNoncesDiffer(t *testing.T) {
	c, _ := newTestClient(t, map[string]any{
		"getBlock": map[string]any{
			"hash":   "0x" + strings.Repeat("11", 32),
			"header": map[string]any{"height": "0x64"},
		},
	})

	param := types.ComposeTransactionParam{ServiceName: "asset", Method: "transfer", Payload: "{}"}
	tx1, err := c.ComposeTransaction(context.Background(), param)
	require.NoError(t, err)
	tx2, err := c.ComposeTransaction(context.Background(), param)
	require.NoError(t, err)

	// Everything but the collaborator-assigned nonce matches.
	require.NotEqual(t, tx1.Nonce, tx2.Nonce)
	tx2.Nonce = tx1.Nonce
	require.Equal(t, tx1, tx2)
}

func TestComposeTransactionExplicitTimeoutSkipsFetch(t *testing.T) {
	c, seen := newTestClient(t, nil)

	timeout := types.Uint64(500)
	tx, err := c.ComposeTransaction(context.Background(), types.ComposeTransactionParam{
		ServiceName: "asset",
		Method:      "transfer",
		Payload:     "{}",
		Timeout:     &timeout,
	})
	require.NoError(t, err)
	require.Empty(t, *seen, "explicit timeout must not fetch a block")
	require.Equal(t, timeout, tx.Timeout)
}

func TestSendTransaction(t *testing.T) {
	wantHash := "0x" + strings.Repeat("ab", 32)
	c, seen := newTestClient(t, map[string]any{"sendTransaction": wantHash})

	stx := types.SignedTransaction{
		Raw: types.RawTransaction{
			ChainID:     types.Hash(config.DefaultChainID),
			CyclesLimit: 0xffffff,
			CyclesPrice: 1,
			Nonce:       types.Hash("0x" + strings.Repeat("02", 32)),
			Timeout:     120,
			ServiceName: "asset",
			Method:      "transfer",
			Payload:     `{"to":"0xdef","value":10}`,
		},
		Signature: types.TransactionSignature{
			TxHash:    types.Hash("0x" + strings.Repeat("03", 32)),
			Pubkey:    types.Hex("0x02aa"),
			Signature: types.Hex("0x04bb"),
		},
	}

	got, err := c.SendTransaction(context.Background(), stx)
	require.NoError(t, err)
	require.Equal(t, types.Hash(wantHash), got)

	require.Len(t, *seen, 1)
	vars := (*seen)[0].Variables
	inputRaw, ok := vars["inputRaw"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "asset", inputRaw["serviceName"])
	require.Equal(t, "0xffffff", inputRaw["cyclesLimit"])
	require.Equal(t, "0x78", inputRaw["timeout"])
	inputEnc, ok := vars["inputEncryption"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "0x02aa", inputEnc["pubkey"])
}

func TestGetReceipt(t *testing.T) {
	txHash := "0x" + strings.Repeat("cd", 32)
	c, _ := newTestClient(t, map[string]any{
		"getReceipt": map[string]any{
			"txHash":     txHash,
			"height":     "0x65",
			"cyclesUsed": "0x10",
			"stateRoot":  "0x" + strings.Repeat("ee", 32),
			"events":     []map[string]any{{"service": "asset", "data": "transferred"}},
			"response": map[string]any{
				"serviceName": "asset",
				"method":      "transfer",
				"ret":         `{"ok":true}`,
				"isError":     false,
			},
		},
	})

	receipt, err := c.GetReceipt(context.Background(), types.Hash(txHash))
	require.NoError(t, err)
	require.Equal(t, types.Hash(txHash), receipt.TxHash)
	require.Equal(t, types.Uint64(0x65), receipt.Height)
	require.Len(t, receipt.Events, 1)
	require.Equal(t, `{"ok":true}`, receipt.Response.Ret.Raw())
}

func TestGetReceiptRejectsBadHash(t *testing.T) {
	c, seen := newTestClient(t, nil)
	_, err := c.GetReceipt(context.Background(), types.Hash("0x01"))
	require.Error(t, err)
	require.Empty(t, *seen)
}

func TestOperationDeadlines(t *testing.T) {
	// A node that never answers within the configured deadline.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Endpoint: srv.URL,
		Timeouts: config.Timeouts{
			Query:   20 * time.Millisecond,
			Compose: 20 * time.Millisecond,
			Submit:  20 * time.Millisecond,
			Receipt: 20 * time.Millisecond,
		},
	}
	require.NoError(t, cfg.Validate())
	c := NewClient(cfg, WithHTTPClient(srv.Client()))

	start := time.Now()
	_, err := c.QueryServiceDyn(context.Background(), types.QueryServiceParam{
		ServiceName: "asset", Method: "get_balance", Payload: "{}",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second, "deadline must trip well before the server answers")

	_, err = c.GetBlock(context.Background(), nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = c.SendTransaction(context.Background(), types.SignedTransaction{})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = c.GetReceipt(context.Background(), types.Hash("0x"+strings.Repeat("cd", 32)))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallerContextStillApplies(t *testing.T) {
	// A caller-supplied deadline shorter than the configured one wins.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client gives up; otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{Endpoint: srv.URL}
	require.NoError(t, cfg.Validate())
	c := NewClient(cfg, WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.QueryServiceDyn(ctx, types.QueryServiceParam{
		ServiceName: "asset", Method: "get_balance", Payload: "{}",
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestTransportErrorSurfaces(t *testing.T) {
	c, _ := newTestClient(t, nil) // every operation answers with a GraphQL error

	_, err := c.QueryServiceDyn(context.Background(), types.QueryServiceParam{
		ServiceName: "asset", Method: "get_balance", Payload: "{}",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "queryService asset.get_balance")
}
