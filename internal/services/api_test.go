package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/jukebox/internal/shared"
	tu "github.com/desertthunder/jukebox/internal/testing"
)

func TestPlaylistClient(t *testing.T) {
	t.Run("NewPlaylistClient", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			c := NewPlaylistClient("", nil)
			if c.baseURL != "http://127.0.0.1:3000" || c.httpClient != http.DefaultClient {
				t.Errorf("unexpected defaults %s", c.baseURL)
			}
			if c.Name() != "proxy" {
				t.Errorf("unexpected name %s", c.Name())
			}
		})

		t.Run("trims trailing slash", func(t *testing.T) {
			if c := NewPlaylistClient("http://example.com/", nil); c.baseURL != "http://example.com" {
				t.Errorf("unexpected base URL %s", c.baseURL)
			}
		})
	})

	t.Run("Fetch", func(t *testing.T) {
		t.Run("decodes a snapshot", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != PlaylistPath || r.Method != http.MethodGet {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"items":[{"videoId":"a","title":"A","channel":"Ch","thumb":"t"}],"fetchedAt":"2026-01-02T03:04:05Z"}`))
			}))
			defer server.Close()

			snap, err := NewPlaylistClient(server.URL, server.Client()).Fetch(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(snap.Items) != 1 || snap.Items[0].OwnerLabel != "Ch" || snap.Items[0].ThumbnailURL != "t" {
				t.Errorf("unexpected snapshot %+v", snap)
			}
			if snap.FetchedAt.Year() != 2026 {
				t.Errorf("unexpected fetchedAt %v", snap.FetchedAt)
			}
		})

		tests := []struct {
			name    string
			status  int
			body    string
			contain string
		}{
			{"error payload with detail", http.StatusBadGateway, `{"error":"Upstream error","detail":"quota"}`, "Upstream error: quota"},
			{"error payload", http.StatusInternalServerError, `{"error":"Missing YOUTUBE_API_KEY"}`, "Missing YOUTUBE_API_KEY"},
			{"bare status", http.StatusServiceUnavailable, `oops`, "status 503"},
			{"malformed body", http.StatusOK, `{"items":`, "malformed"},
			{"missing items", http.StatusOK, `{"fetchedAt":"2026-01-02T03:04:05Z"}`, "missing items"},
			{"duplicate ids", http.StatusOK, `{"items":[{"videoId":"a"},{"videoId":"a"}]}`, "duplicate"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				_, err := NewPlaylistClient(server.URL, server.Client()).Fetch(context.Background())
				if !errors.Is(err, shared.ErrFetch) {
					t.Fatalf("expected ErrFetch, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.contain) {
					t.Errorf("expected error to contain %q, got %v", tt.contain, err)
				}
			})
		}

		t.Run("transport failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			_, err := NewPlaylistClient("http://proxy", client).Fetch(context.Background())
			if !errors.Is(err, shared.ErrFetch) {
				t.Errorf("expected ErrFetch, got %v", err)
			}
		})

		t.Run("body read failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			_, err := NewPlaylistClient("http://proxy", client).Fetch(context.Background())
			if !errors.Is(err, shared.ErrFetch) {
				t.Errorf("expected ErrFetch, got %v", err)
			}
		})
	})
}
