package evm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const testContract = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

// ABI-encoded return values.
const (
	decimalsReturn = "0x0000000000000000000000000000000000000000000000000000000000000006"
	symbolReturn   = "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"5553444300000000000000000000000000000000000000000000000000000000"
	nameReturn = "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000008" +
		"55534420436f696e000000000000000000000000000000000000000000000000"
)

// Method selectors.
const (
	decimalsSelector = "0x313ce567"
	symbolSelector   = "0x95d89b41"
	nameSelector     = "0x06fdde03"
)

func newERC20Server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		if req.Method != "eth_call" {
			t.Errorf("expected method eth_call, got %s", req.Method)
		}

		callObj, ok := req.Params[0].(map[string]interface{})
		if !ok {
			t.Fatalf("unexpected params shape: %v", req.Params)
		}
		data, _ := callObj["data"].(string)

		var result string
		switch {
		case strings.HasPrefix(data, decimalsSelector):
			result = decimalsReturn
		case strings.HasPrefix(data, symbolSelector):
			result = symbolReturn
		case strings.HasPrefix(data, nameSelector):
			result = nameReturn
		default:
			t.Errorf("unexpected calldata %s", data)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_ERC20Reads(t *testing.T) {
	server := newERC20Server(t)
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	decimals, err := client.ERC20Decimals(ctx, testContract)
	if err != nil {
		t.Fatalf("ERC20Decimals: %v", err)
	}
	if decimals != 6 {
		t.Errorf("expected 6 decimals, got %d", decimals)
	}

	symbol, err := client.ERC20Symbol(ctx, testContract)
	if err != nil {
		t.Fatalf("ERC20Symbol: %v", err)
	}
	if symbol != "USDC" {
		t.Errorf("expected USDC, got %q", symbol)
	}

	name, err := client.ERC20Name(ctx, testContract)
	if err != nil {
		t.Fatalf("ERC20Name: %v", err)
	}
	if name != "USD Coin" {
		t.Errorf("expected USD Coin, got %q", name)
	}
}

func TestClient_RPCErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32000, "message": "execution reverted"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ERC20Decimals(context.Background(), testContract)
	if err == nil {
		t.Fatal("expected error for reverted call")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("RPC errors must not be retried, server saw %d calls", got)
	}
}

func TestClient_TransportRetry(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  decimalsReturn,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	decimals, err := client.ERC20Decimals(context.Background(), testContract)
	if err != nil {
		t.Fatalf("ERC20Decimals after retry: %v", err)
	}
	if decimals != 6 {
		t.Errorf("expected 6 decimals, got %d", decimals)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestClient_EmptyReturnData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "0x",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// A non-contract address returns empty data; the unpack must fail
	// rather than yield a zero value.
	client := NewClient(server.URL)
	if _, err := client.ERC20Decimals(context.Background(), testContract); err == nil {
		t.Fatal("expected error for empty return data")
	}
}
