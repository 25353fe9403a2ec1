package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/photo"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository/memory"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type memImageStore struct{}

func (memImageStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ photo.ContentType) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return "https://img.test/" + key, nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := memory.NewStore()

	hasher, err := application.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("handler-secret", time.Hour, store.Institutions())

	statuses := application.NewStatusService(store.Pets(), store.StatusEvents(), store.Institutions(), store, nil, nil, logger)
	photos := application.NewPhotoService(memImageStore{}, "pets/", logger)
	pets := application.NewPetService(store.Pets(), store.Institutions(), statuses, photos, store, nil, nil, logger)
	creds := application.NewCredentialService(store.Users(), store.Institutions(), hasher, tokens, logger)

	router := NewRouter(Services{
		Credentials: creds,
		Pets:        pets,
		Statuses:    statuses,
	}, RouterOptions{
		Logger:   logger,
		Verifier: tokens,
		Health:   health.NewHandler("service-adoption", map[string]health.Pinger{"store": store}),
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) institutionToken(n int) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/institutions", "", map[string]any{
		"name":     fmt.Sprintf("Shelter %d", n),
		"email":    fmt.Sprintf("shelter%d@x.com", n),
		"taxId":    fmt.Sprintf("TAX-%d", n),
		"password": "secret",
		"kind":     "ngo",
		"city":     "Recife",
		"state":    "PE",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/sessions/institutions", "", map[string]any{
		"email":    fmt.Sprintf("shelter%d@x.com", n),
		"password": "secret",
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[application.InstitutionSession](s.t, w).Token
}

func (s *testServer) userToken() string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/users", "", map[string]any{
		"name":       "Ana",
		"email":      "ana@x.com",
		"nationalId": "123",
		"password":   "secret",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/sessions/users", "", map[string]any{"email": "ana@x.com", "password": "secret"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	session := decode[application.UserSession](s.t, w)
	assert.Equal(s.t, "user", session.User.Type)
	return session.Token
}

func (s *testServer) createPet(token, name string) application.PetDTO {
	s.t.Helper()
	w := s.do(http.MethodPost, "/pets", token, map[string]any{
		"name":    name,
		"species": "DOG",
		"size":    "SMALL",
		"gender":  "FEMALE",
		"age":     3,
		"photos":  []string{"https://cdn.test/a.jpg"},
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[application.PetDTO](s.t, w)
}

func TestRouter_AdoptionFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)
	pet := s.createPet(token, "Luna")
	assert.True(t, pet.IsAvailable)
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, pet.Photos)

	w := s.do(http.MethodPost, "/pet-status/"+pet.ID.String(), token, map[string]any{
		"status": "ADOPTED",
		"note":   "went home",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	evt := decode[application.StatusEventDTO](t, w)
	assert.Equal(t, "ADOPTED", evt.Status)
	require.NotNil(t, evt.Institution)
	assert.Equal(t, "Shelter 1", evt.Institution.Name)

	w = s.do(http.MethodGet, "/pets/"+pet.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[application.PetDTO](t, w)
	assert.False(t, got.IsAvailable)
	require.NotNil(t, got.Institution)
	assert.Equal(t, "Recife", got.Institution.City)

	w = s.do(http.MethodGet, "/pets/"+pet.ID.String()+"/history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]application.StatusEventDTO](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "ADOPTED", history[0].Status)
	assert.Equal(t, "AVAILABLE", history[1].Status)

	w = s.do(http.MethodGet, "/pets/"+pet.ID.String()+"/current", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ADOPTED", decode[application.StatusEventDTO](t, w).Status)
}

func TestRouter_ListFilters(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)
	first := s.createPet(token, "Luna")
	s.createPet(token, "Thor")

	w := s.do(http.MethodPost, "/pet-status/"+first.ID.String(), token, map[string]any{"status": "IN_PROCESS"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tests := []struct {
		query string
		total int64
	}{
		{"", 2},
		{"?isAvailable=true", 1},
		{"?isAvailable=false", 1},
		{"?isAvailable=maybe", 2},
		{"?species=CAT", 0},
		{"?page=1&limit=1", 2},
		{"?page=1844674407370955161", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(http.MethodGet, "/pets"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.total, decode[struct {
				Total int64 `json:"total"`
			}](t, w).Total)
		})
	}

	w = s.do(http.MethodGet, "/pets?page=1844674407370955161&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[struct {
		Items []application.PetDTO `json:"items"`
	}](t, w).Items)

	w = s.do(http.MethodGet, "/institutions/me/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode[application.InstitutionStatsDTO](t, w)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(1), stats.Unavailable)
}

func TestRouter_Authorization(t *testing.T) {
	s := newTestServer(t)
	owner := s.institutionToken(1)
	other := s.institutionToken(2)
	user := s.userToken()
	pet := s.createPet(owner, "Luna")
	body := map[string]any{"name": "Max", "species": "DOG", "size": "SMALL", "gender": "MALE"}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		code   int
	}{
		{"create without token", http.MethodPost, "/pets", "", body, http.StatusUnauthorized},
		{"create with garbage token", http.MethodPost, "/pets", "garbage", body, http.StatusUnauthorized},
		{"create as user", http.MethodPost, "/pets", user, body, http.StatusForbidden},
		{"update by other institution", http.MethodPut, "/pets/" + pet.ID.String(), other, map[string]any{"name": "X"}, http.StatusForbidden},
		{"record by other institution", http.MethodPost, "/pet-status/" + pet.ID.String(), other, map[string]any{"status": "ADOPTED"}, http.StatusForbidden},
		{"delete as user", http.MethodDelete, "/pets/" + pet.ID.String(), user, nil, http.StatusForbidden},
		{"dashboard as user", http.MethodGet, "/institutions/me/pets", user, nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	w := s.do(http.MethodGet, "/pets/"+pet.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[application.PetDTO](t, w)
	assert.Equal(t, "Luna", got.Name)
	assert.True(t, got.IsAvailable)

	w = s.do(http.MethodGet, "/pets/"+pet.ID.String()+"/history", "", nil)
	assert.Len(t, decode[[]application.StatusEventDTO](t, w), 1)
}

func TestRouter_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)
	pet := s.createPet(token, "Luna")

	w := s.do(http.MethodPut, "/pets/"+pet.ID.String(), token, map[string]any{"name": "Luna II", "isAvailable": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[application.PetDTO](t, w)
	assert.Equal(t, "Luna II", updated.Name)
	assert.True(t, updated.IsAvailable)

	w = s.do(http.MethodDelete, "/pets/"+pet.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/pets/"+pet.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/pets/"+pet.ID.String()+"/history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]application.StatusEventDTO](t, w))
}

func TestRouter_BadRequests(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		code   int
	}{
		{"malformed pet id", http.MethodGet, "/pets/not-a-uuid", "", nil, http.StatusBadRequest},
		{"current without history", http.MethodGet, "/pets/" + uuid.NewString() + "/current", "", nil, http.StatusBadRequest},
		{"unknown pet", http.MethodGet, "/pets/" + uuid.NewString(), "", nil, http.StatusNotFound},
		{"invalid species", http.MethodPost, "/pets", token, map[string]any{"name": "X", "species": "DRAGON", "size": "SMALL", "gender": "MALE"}, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/pets", token, map[string]any{"species": "DOG", "size": "SMALL", "gender": "MALE"}, http.StatusBadRequest},
		{"invalid institution kind", http.MethodPost, "/institutions", "", map[string]any{"name": "A", "email": "a@x.com", "taxId": "1", "password": "p", "kind": "COMPANY"}, http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/sessions/institutions", "", map[string]any{"email": "shelter1@x.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown account", http.MethodPost, "/sessions/users", "", map[string]any{"email": "ghost@x.com", "password": "nope"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t)
	s.institutionToken(1)

	w := s.do(http.MethodPost, "/institutions", "", map[string]any{
		"name": "Copy", "email": "SHELTER1@x.com", "taxId": "OTHER", "password": "p", "kind": "MUNICIPALITY",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestRouter_MultipartCreate(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Mia", "species": "CAT", "size": "SMALL", "gender": "FEMALE", "age": "1"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photos"; filename="mia.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pet := decode[application.PetDTO](t, w)
	require.Len(t, pet.Photos, 1)
	assert.Regexp(t, `^https://img\.test/pets/[0-9a-f]+-mia\.png$`, pet.Photos[0])
}

func TestRouter_MultipartRejectsNonImage(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Mia", "species": "CAT", "size": "SMALL", "gender": "FEMALE"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("photos", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/pets", "", nil)
	assert.Equal(t, int64(0), decode[struct {
		Total int64 `json:"total"`
	}](t, w).Total)
}

func TestRouter_MultipartRejectsMislabelledImage(t *testing.T) {
	s := newTestServer(t)
	token := s.institutionToken(1)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Mia", "species": "CAT", "size": "SMALL", "gender": "FEMALE"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photos"; filename="mia.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("<html><body>not a png</body></html>"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "does not match")
}

func TestRouter_RootAndHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")

	w = s.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
