package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	restctx "github.com/dazuba/feature-votes/internal/api/rest/context"
	"github.com/dazuba/feature-votes/internal/api/rest/handler"
	"github.com/dazuba/feature-votes/internal/apierrors"
	"github.com/dazuba/feature-votes/internal/testutil"
)

func newTestRouter() *Router {
	return New(nil, nil, nil, restctx.NewManager(), testutil.NewNoopLogger())
}

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	e := newTestRouter().Register()
	require.NotNil(t, e)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	e := newTestRouter().Register()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_UnmatchedRoute(t *testing.T) {
	t.Parallel()

	e := newTestRouter().Register()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope handler.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, apierrors.CodeNotFound, envelope.Error.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	e := newTestRouter().Register()

	routes := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/features"},
		{http.MethodPut, "/features/0d9d54f5-3b0d-4f0e-8a53-79d555dcd4a2"},
		{http.MethodDelete, "/features/0d9d54f5-3b0d-4f0e-8a53-79d555dcd4a2"},
		{http.MethodPost, "/features/0d9d54f5-3b0d-4f0e-8a53-79d555dcd4a2/vote"},
		{http.MethodGet, "/features/0d9d54f5-3b0d-4f0e-8a53-79d555dcd4a2/vote"},
	}

	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.target)

		var envelope handler.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, apierrors.CodeUnauthenticated, envelope.Error.Code)
	}
}
