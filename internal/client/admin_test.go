package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rideadmin/pricing/internal/config"
	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) AdminClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAdminClient(config.APIConfig{
		BaseURL: server.URL + "/api/admin/",
		Token:   "secret",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestListCategories_BareArrayAndEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"_id": "c1", "name": "Cab"}]`},
		{"data envelope", `{"success": true, "data": [{"_id": "c1", "name": "Cab"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/admin/categories", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})

			categories, err := c.ListCategories(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []domain.Category{{ID: "c1", Name: "Cab"}}, categories)
		})
	}
}

func TestListVehicles_ByCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/vehicles", r.URL.Path)
		assert.Equal(t, "c2", r.URL.Query().Get("category"))
		_, _ = io.WriteString(w, `{"data": [{"_id": "v1", "name": "Truck", "category": {"_id": "c2", "name": "Parcel"}}]}`)
	})

	vehicles, err := c.ListVehicles(context.Background(), "c2")
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "c2", vehicles[0].Category.ID)
}

func TestCreateAndUpdateRule(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["category"])

		_, _ = io.WriteString(w, `{"data": {"_id": "r1", "category": "c1", "status": true}}`)
	})

	payload := map[string]any{"category": "c1"}

	rule, err := c.CreateRule(context.Background(), domain.RuleFamilyCab, payload)
	require.NoError(t, err)
	assert.Equal(t, "r1", rule.ID)

	rule, err = c.UpdateRule(context.Background(), domain.RuleFamilyDriver, "r1", payload)
	require.NoError(t, err)
	assert.Equal(t, "c1", rule.CategoryID())

	assert.Equal(t, []string{
		"POST /api/admin/cab-fare-rules",
		"PUT /api/admin/driver-fare-rules/r1",
	}, calls)
}

func TestSetRuleStatusAndDelete(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPatch {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"status": false}`, string(body))
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SetRuleStatus(context.Background(), domain.RuleFamilyCab, "r1", false))
	require.NoError(t, c.DeleteRule(context.Background(), domain.RuleFamilyRideCost, "r2"))

	assert.Equal(t, []string{
		"PATCH /api/admin/cab-fare-rules/r1/status",
		"DELETE /api/admin/ride-costs/r2",
	}, calls)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		message     string
		notFound    bool
	}{
		{
			name:        "json message",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"message": "baseFare is required"}`,
			message:     "baseFare is required",
		},
		{
			name:        "html error page",
			status:      http.StatusNotFound,
			contentType: "text/html",
			body:        "<html><head><title>404 Not Found</title></head><body><h1>Not Found</h1></body></html>",
			message:     "404 Not Found",
			notFound:    true,
		},
		{
			name:        "plain text",
			status:      http.StatusConflict,
			contentType: "text/plain",
			body:        "rule   already\nexists",
			message:     "rule already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ListRules(context.Background(), domain.RuleFamilyWalletBalance)
			require.Error(t, err)

			apiErr, ok := IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.notFound, errors.Is(err, domain.ErrNotFound))
		})
	}
}

func TestListRules_UnknownFamily(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	_, err := c.ListRules(context.Background(), domain.RuleFamily("bus"))
	assert.ErrorIs(t, err, domain.ErrUnknownFamily)
}

func TestListRides(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "/api/admin/rides", r.URL.Path)
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "c1", query.Get("category"))
		assert.Empty(t, query.Get("subCategory"))
		_, _ = io.WriteString(w, `{"data": [{"_id": "ride1", "category": "c1", "fare": 120}], "totalPages": 4, "totalRides": 31, "page": 2}`)
	})

	page, err := c.ListRides(context.Background(), listing.RideQuery{CategoryID: "c1", SubcategoryID: listing.All, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 31, page.TotalRides)
	require.Len(t, page.Rides, 1)
	assert.Equal(t, 120.0, page.Rides[0].Fare)
}

type rotatingProxies struct {
	urls []string
	next int
}

func (p *rotatingProxies) Next() string {
	u := p.urls[p.next%len(p.urls)]
	p.next++
	return u
}

func (p *rotatingProxies) Len() int { return len(p.urls) }

func TestDo_SwitchesProxyOnTransportError(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/cars", r.URL.Path)
		_, _ = io.WriteString(w, `[{"_id": "car1", "name": "Dzire"}]`)
	}))
	t.Cleanup(working.Close)

	proxies := &rotatingProxies{urls: []string{dead.URL, working.URL}}
	c := NewAdminClient(config.APIConfig{
		BaseURL: "http://admin.invalid/api/admin",
		Timeout: 5 * time.Second,
	}, proxies)

	cars, err := c.ListCars(context.Background())
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "car1", cars[0].ID)
	assert.Equal(t, 2, proxies.next)
}
