package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/qr-review/api/internal/config"
	"github.com/sngm3741/qr-review/api/internal/qrcode"
)

var testSecret = []byte("test-secret")

func testConfig() config.Config {
	return config.Config{
		Addr:             ":0",
		StoreDriver:      config.DriverMemory,
		PublicOrigin:     "https://app.example",
		AllowedOrigins:   []string{"https://owner.example"},
		JWT:              config.JWTConfig{Issuer: "qr-review-auth", Audience: "qr-review", Secret: testSecret},
		PromptPoolSize:   50,
		PromptSampleSize: 3,
		RedirectDelay:    800 * time.Millisecond,
		QRPixelSize:      8,
		QRMargin:         4,
		PromptSeed:       7,
		ServerLog:        log.New(io.Discard, "", 0),
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	srv, err := New(testConfig(), nil)
	require.NoError(t, err)
	return srv.Router()
}

func signToken(t *testing.T, secret []byte, claims authClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func ownerClaims(subject, name string) authClaims {
	return authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "qr-review-auth",
			Audience:  jwt.ClaimStrings{"qr-review"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: name,
	}
}

func doRequest(router http.Handler, method, target, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRejectsInvalidOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.PublicOrigin = "app.example/path"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestHealthzWithMemoryDriver(t *testing.T) {
	rec := doRequest(newTestRouter(t), http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, config.DriverMemory, body["driver"])
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	router := newTestRouter(t)

	expired := ownerClaims("u1", "Joe")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := ownerClaims("u1", "Joe")
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := ownerClaims("u1", "Joe")
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	cases := map[string]string{
		"bad signature":  signToken(t, []byte("other-secret"), ownerClaims("u1", "Joe")),
		"expired":        signToken(t, testSecret, expired),
		"wrong issuer":   signToken(t, testSecret, wrongIssuer),
		"wrong audience": signToken(t, testSecret, wrongAudience),
		"no subject":     signToken(t, testSecret, ownerClaims("", "Joe")),
		"garbage":        "not-a-jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/dashboard", token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	rec := doRequest(router, http.MethodGet, "/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/dashboard", nil)
	req.Header.Set("Origin", "https://owner.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://owner.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// Owner u1 saves a profile, the dashboard code decodes to the public URL,
// a visitor resolves it once and is sent to the review destination.
func TestOwnerToVisitorScenario(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, testSecret, ownerClaims("u1", "Joe"))

	rec := doRequest(router, http.MethodPatch, "/dashboard/profile", token,
		`{"name":"Joe's Cafe","externalReviewUrl":"https://g.page/r/abc"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(router, http.MethodGet, "/dashboard/qr.png", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	publicURL, err := qrcode.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "https://app.example/review/u1", publicURL)

	path := strings.TrimPrefix(publicURL, "https://app.example")
	rec = doRequest(router, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "Joe's Cafe", page.DisplayName)

	rec = doRequest(router, http.MethodGet, "/dashboard/counters", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var counters struct {
		ScanCount int64 `json:"scanCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counters))
	assert.Equal(t, int64(1), counters.ScanCount)

	rec = doRequest(router, http.MethodGet, path+"/prompts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var prompts struct {
		Prompts []struct {
			ID   int    `json:"id"`
			Text string `json:"text"`
		} `json:"prompts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prompts))
	require.NotEmpty(t, prompts.Prompts)

	body := bytes.Buffer{}
	require.NoError(t, json.NewEncoder(&body).Encode(map[string]int{"promptId": prompts.Prompts[0].ID}))
	rec = doRequest(router, http.MethodPost, path+"/redirect", "", body.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var outcome struct {
		State         string `json:"state"`
		ClipboardText string `json:"clipboardText"`
		RedirectURL   string `json:"redirectUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, "redirecting", outcome.State)
	assert.Equal(t, prompts.Prompts[0].Text, outcome.ClipboardText)
	assert.Equal(t, "https://g.page/r/abc", outcome.RedirectURL)
}
