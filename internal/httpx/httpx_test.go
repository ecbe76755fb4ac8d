package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofs91/InspectWise3.0/internal/domains"
)

type stubAuth map[string]string

func (s stubAuth) Authenticate(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

type stubProfiles map[string]domains.UserProfile

func (s stubProfiles) Profile(_ context.Context, id string) (domains.UserProfile, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return domains.UserProfile{}, errors.New("not found")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	sub, _ := UserIDFromContext(r.Context())
	w.Write([]byte(sub + "|" + OrganizationID(r.Context())))
}

func TestProtected(t *testing.T) {
	h := Protected(stubAuth{"good": "u1"})(http.HandlerFunc(echoUser))

	for _, tc := range []struct {
		name   string
		setup  func(r *http.Request)
		url    string
		status int
		body   string
	}{
		{name: "missing", url: "/", status: http.StatusUnauthorized},
		{name: "invalid", url: "/", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "header", url: "/", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, status: http.StatusOK, body: "u1|"},
		{name: "query", url: "/?access_token=good", status: http.StatusOK, body: "u1|"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestProfileAndRequireOrganization(t *testing.T) {
	org := "org-1"
	profiles := stubProfiles{
		"member": {ID: "member", OrganizationID: &org},
		"newbie": {ID: "newbie"},
	}
	h := Profile(profiles)(RequireOrganization(http.HandlerFunc(echoUser)))

	serve := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if userID != "" {
			req = req.WithContext(WithUserID(req.Context(), userID))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve("member")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "member|org-1", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve("newbie").Code)
	assert.Equal(t, http.StatusUnauthorized, serve("ghost").Code)
	assert.Equal(t, http.StatusUnauthorized, serve("").Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestReadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Fire"}`))
	body, err := ReadBody[domains.TemplateCreate](req)
	require.NoError(t, err)
	assert.Equal(t, "Fire", body.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	_, err = ReadBody[domains.TemplateCreate](req)
	assert.Error(t, err)
}
