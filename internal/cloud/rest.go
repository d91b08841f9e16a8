package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tinytreats/pkg/config"
)

// RESTStore talks to a Supabase-style PostgREST endpoint holding the
// shared "orders" table
type RESTStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTStore creates a datastore client for the given project URL and key
func NewRESTStore(cfg *config.CloudConfig) *RESTStore {
	return &RESTStore{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.Key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a real datastore is configured
func (s *RESTStore) Enabled() bool { return true }

// InsertOrder persists a new pending order row
func (s *RESTStore) InsertOrder(ctx context.Context, order Order) error {
	body, err := json.Marshal([]Order{order})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/rest/v1/orders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloud insert failed: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// PendingOrders lists cloud orders with status "pending"
func (s *RESTStore) PendingOrders(ctx context.Context) ([]Order, error) {
	endpoint := s.baseURL + "/rest/v1/orders?select=*&status=eq.pending"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cloud query failed: %d %s", resp.StatusCode, string(body))
	}

	var orders []Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkSynced flips a cloud order's status to "synced"
func (s *RESTStore) MarkSynced(ctx context.Context, id string) error {
	endpoint := s.baseURL + "/rest/v1/orders?id=eq." + url.QueryEscape(id)
	body := []byte(`{"status":"synced"}`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloud update failed: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *RESTStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
