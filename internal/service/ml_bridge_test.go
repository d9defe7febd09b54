package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/propestimator/backend/internal/domain"
)

func TestMLBridgePredict(t *testing.T) {
	var got predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions": [345678.9, 1]}`))
	}))
	defer srv.Close()

	rec := domain.FeatureRecord{SurfaceTotal: 150, SurfaceCovered: 120, Rooms: 4, Bedrooms: 3, Bathrooms: 2, L2: "Palermo", L3: "Palermo Chico", PropertyType: "Casa"}
	price, err := NewMLBridge(srv.URL+"/").Predict(context.Background(), rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 345678.9 {
		t.Fatalf("price = %v, want 345678.9", price)
	}
	if len(got.Instances) != 1 || got.Instances[0] != rec {
		t.Fatalf("instances = %+v", got.Instances)
	}
	if len(got.Columns) != 8 || got.Columns[6] != "l3" {
		t.Fatalf("columns = %v", got.Columns)
	}
}

func TestMLBridgePredictErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail": "model exploded"}`},
		{"empty predictions", http.StatusOK, `{"predictions": []}`},
		{"bad json", http.StatusOK, `not json`},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))

		_, err := NewMLBridge(srv.URL).Predict(context.Background(), domain.FeatureRecord{})
		srv.Close()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestConnectMLBridgeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := ConnectMLBridge(context.Background(), srv.URL)

	var missing *domain.MissingArtifactError
	if !errors.As(err, &missing) || missing.Artifact != domain.ArtifactModel {
		t.Fatalf("expected missing model, got %v", err)
	}
}
