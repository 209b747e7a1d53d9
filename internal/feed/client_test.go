package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"symbol": "ABC",
				"name": "Abc Token",
				"decimals": 18,
				"logoURI": "https://example.com/abc.png",
				"platforms": {"ethereum": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"}
			},
			{
				"symbol": "XYZ",
				"name": "Xyz Token",
				"platforms": {}
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	abc := records[0]
	if abc.Symbol != "ABC" || abc.Name != "Abc Token" {
		t.Errorf("unexpected record: %+v", abc)
	}
	if abc.Decimals == nil || *abc.Decimals != 18 {
		t.Errorf("expected decimals 18, got %v", abc.Decimals)
	}
	if abc.LogoURI == nil || *abc.LogoURI != "https://example.com/abc.png" {
		t.Errorf("expected logo URI, got %v", abc.LogoURI)
	}
	if abc.Platforms["ethereum"] == "" {
		t.Errorf("expected ethereum platform, got %v", abc.Platforms)
	}

	xyz := records[1]
	if xyz.Decimals != nil {
		t.Errorf("expected absent decimals, got %v", *xyz.Decimals)
	}
	if xyz.LogoURI != nil {
		t.Errorf("expected absent logo URI, got %v", *xyz.LogoURI)
	}
}

func TestClient_FetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestClient_FetchBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestClient_FetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
