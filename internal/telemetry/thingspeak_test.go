package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

func TestLastFieldValue(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/2909250/fields/1/last.json", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"created_at":"2026-08-28T10:00:00Z","entry_id":42,"field1":"95.5"}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "2909250", "secret")
	v, err := c.LastFieldValue(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 95.5, v)
}

func TestLastFieldValueNumericPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"field3": 12}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "ch", "k")
	v, err := c.LastFieldValue(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
}

func TestLastFieldValueNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "ch", "k")
	_, err := c.LastFieldValue(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsTelemetryError(err))
}

func TestLastFieldValueMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"non-numeric string": `{"field1":"offline"}`,
		"null field":         `{"field1":null}`,
		"missing field":      `{"field2":"10"}`,
		"broken json":        `{"field1":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer ts.Close()

			c := NewClient(ts.URL, "ch", "k")
			_, err := c.LastFieldValue(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsTelemetryError(err))
		})
	}
}
