package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemwatch/chemwatch/internal/domain"
	"github.com/chemwatch/chemwatch/internal/repo"
	"github.com/chemwatch/chemwatch/internal/service"
)

func newTestServer() (*httptest.Server, *Server) {
	hub := NewHub()
	inventory := service.NewInventoryService(repo.NewMemoryItemStore(), repo.NewMemoryScanStore())
	alerts := service.NewAlertService(repo.NewMemoryAlertStore()).AddNotifier(hub)
	s := NewServer(":0", inventory, alerts, hub)
	return httptest.NewServer(s.Routes()), s
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestScanRequiresTag(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/scan", map[string]any{"quantity": 2})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScanCreateListFlow(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/scan", map[string]any{"tag": "T1", "quantity": 5})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	ack := decodeBody[map[string]any](t, resp)
	assert.Nil(t, ack["matched"], "nothing owns T1 yet")

	resp = postJSON(t, ts.URL+"/api/items/create/corrosive", map[string]any{"name": "Acid"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decodeBody[domain.Item](t, resp)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, "T1", item.Tag)

	r, err := http.Get(ts.URL + "/api/items/corrosive")
	require.NoError(t, err)
	items := decodeBody[[]domain.Item](t, r)
	require.Len(t, items, 1)
	assert.Equal(t, "Acid", items[0].Name)

	// A second scan of the now-owned tag reports the match.
	resp = postJSON(t, ts.URL+"/api/scan", map[string]any{"tag": "T1", "quantity": 3})
	ack = decodeBody[map[string]any](t, resp)
	require.NotNil(t, ack["matched"])
	matched := ack["matched"].(map[string]any)
	assert.Equal(t, "Acid", matched["name"])
	assert.Equal(t, float64(8), matched["quantity"])
}

func TestCreateItemValidation(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/items/create/corrosive", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "name is required")

	resp = postJSON(t, ts.URL+"/api/items/create/corrosive", map[string]any{"name": "Acid"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no prior scan recorded")

	resp = postJSON(t, ts.URL+"/api/items/create/plasma", map[string]any{"name": "Acid"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown category")
}

func TestItemMutationEndpoints(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/scan", map[string]any{"tag": "T2"})
	resp.Body.Close()
	resp = postJSON(t, ts.URL+"/api/items/create/flammable", map[string]any{"name": "Ethanol"})
	item := decodeBody[domain.Item](t, resp)

	resp = postJSON(t, ts.URL+"/api/items/increment", map[string]any{"id": item.ID})
	got := decodeBody[domain.Item](t, resp)
	assert.Equal(t, 2, got.Quantity)

	resp = postJSON(t, ts.URL+"/api/items/quantity", map[string]any{"id": item.ID, "quantity": 7})
	got = decodeBody[domain.Item](t, resp)
	assert.Equal(t, 7, got.Quantity)

	resp = postJSON(t, ts.URL+"/api/items/quantity", map[string]any{"id": item.ID, "quantity": -1})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/items/decrement", map[string]any{"id": item.ID})
	got = decodeBody[domain.Item](t, resp)
	assert.Equal(t, 6, got.Quantity)

	resp = postJSON(t, ts.URL+"/api/items/delete", map[string]any{"id": item.ID})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/items/increment", map[string]any{"id": item.ID})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/items/increment", map[string]any{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "id is required")
}

func TestAlertEndpoints(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/alerts/create", map[string]any{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "description is required")

	resp = postJSON(t, ts.URL+"/api/alerts/create", map[string]any{"description": "Alert at gas section"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	alert := decodeBody[domain.Alert](t, resp)
	assert.NotZero(t, alert.ID)

	r, err := http.Get(ts.URL + "/api/alerts")
	require.NoError(t, err)
	alerts := decodeBody[[]domain.Alert](t, r)
	require.Len(t, alerts, 1)

	resp = postJSON(t, ts.URL+"/api/alerts/resolve", map[string]any{"id": alert.ID})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/alerts/resolve", map[string]any{"id": alert.ID})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWSReceivesAlertEvents(t *testing.T) {
	ts, srv := newTestServer()
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/alerts/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	resp := postJSON(t, ts.URL+"/api/alerts/create", map[string]any{"description": "Alert at gas section"})
	alert := decodeBody[domain.Alert](t, resp)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	ev := wsEvent{}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "alert_created", ev.Type)
	require.NotNil(t, ev.Alert)
	assert.Equal(t, alert.ID, ev.Alert.ID)

	resp = postJSON(t, ts.URL+"/api/alerts/resolve", map[string]any{"id": alert.ID})
	resp.Body.Close()

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "alert_resolved", ev.Type)
	assert.Equal(t, alert.ID, ev.AlertID)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	r, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)

	body := decodeBody[map[string]any](t, r)
	fmt.Printf("health = %+v\n", body)
	assert.Equal(t, "healthy", body["status"])
}
