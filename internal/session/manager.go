package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// Manager owns the access/refresh token pair. It attaches the access token to
// every request routed through Do, detects authorization failure, performs a
// single coordinated refresh shared by all concurrently-failing requests, and
// retries each original request exactly once.
type Manager struct {
	baseURL   string
	hc        *http.Client
	log       *logrus.Entry
	statePath string

	mu      sync.Mutex
	access  string
	refresh string
	pending *refreshCall // at most one in-flight refresh
}

// refreshCall is the shared handle every waiter attaches to instead of
// starting its own refresh.
type refreshCall struct {
	done chan struct{}
	err  error
}

// storedTokens is the token file layout. The token pair is the only state
// this client persists.
type storedTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func NewManager(baseURL, stateDir string, log *logrus.Entry) *Manager {
	m := &Manager{
		baseURL:   baseURL,
		hc:        &http.Client{Timeout: 60 * time.Second},
		log:       log.WithField("component", "session"),
		statePath: filepath.Join(stateDir, "tokens.json"),
	}
	m.loadTokens()
	return m
}

// Authenticated reports whether a token pair is held.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access != "" && m.refresh != ""
}

// BaseURL returns the backend base URL requests are resolved against.
func (m *Manager) BaseURL() string {
	return m.baseURL
}

// Do sends an authenticated request. A 401 response triggers one shared token
// refresh and one retry of the original request with the new access token; a
// second 401 surfaces as Unauthorized without another refresh attempt.
func (m *Manager) Do(req *http.Request) (*http.Response, error) {
	m.prepare(req)

	resp, err := m.hc.Do(req)
	if err != nil {
		return nil, faults.NewNetworkFailure(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Discard the 401 body before retrying.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if err := m.awaitRefresh(req.Context()); err != nil {
		return nil, faults.NewUnauthorized("session expired, log in again")
	}

	retry, err := rebuild(req)
	if err != nil {
		return nil, faults.NewUnauthorized("could not retry request after refresh")
	}
	m.prepare(retry)

	resp, err = m.hc.Do(retry)
	if err != nil {
		return nil, faults.NewNetworkFailure(err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// Already retried once. Never refresh again for this request.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, faults.NewUnauthorized("request rejected after token refresh")
	}
	return resp, nil
}

// prepare attaches the bearer credential (possibly stale while a refresh is in
// flight) and a correlation ID.
func (m *Manager) prepare(req *http.Request) {
	m.mu.Lock()
	access := m.access
	m.mu.Unlock()

	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
}

// awaitRefresh resolves the current refresh: it either joins the in-flight
// call or becomes the one goroutine that performs it. Single-flight is
// guaranteed by the pending slot under the mutex.
func (m *Manager) awaitRefresh(ctx context.Context) error {
	m.mu.Lock()
	if m.pending != nil {
		call := m.pending
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if m.refresh == "" {
		m.clearLocked()
		m.mu.Unlock()
		return faults.NewRefreshFailed(fmt.Errorf("no refresh token"))
	}

	call := &refreshCall{done: make(chan struct{})}
	m.pending = call
	refresh := m.refresh
	m.mu.Unlock()

	err := m.refreshTokens(ctx, refresh)

	m.mu.Lock()
	if err != nil {
		m.clearLocked()
	}
	m.pending = nil
	m.mu.Unlock()

	call.err = err
	close(call.done)
	return err
}

// refreshTokens performs the refresh call against the backend and stores the
// returned pair. It deliberately bypasses Do: a refresh must never trigger
// another refresh.
func (m *Manager) refreshTokens(ctx context.Context, refresh string) error {
	m.log.Info("refreshing access token")

	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := m.postJSON(ctx, "/authenticator/token/refresh/", map[string]string{"refresh": refresh}, &out); err != nil {
		m.log.WithField("error", err.Error()).Warn("token refresh failed")
		return faults.NewRefreshFailed(err)
	}
	if out.Access == "" {
		return faults.NewRefreshFailed(fmt.Errorf("refresh response missing access token"))
	}
	if out.Refresh == "" {
		// Backend may not rotate the refresh token.
		out.Refresh = refresh
	}

	m.mu.Lock()
	m.access = out.Access
	m.refresh = out.Refresh
	m.saveLocked()
	m.mu.Unlock()

	m.log.Info("access token refreshed")
	return nil
}

// rebuild clones a request for its single retry, restoring the body from
// GetBody.
func rebuild(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

// clearLocked wipes the session. Callers hold the mutex.
func (m *Manager) clearLocked() {
	m.access = ""
	m.refresh = ""
	os.Remove(m.statePath)
}

func (m *Manager) saveLocked() {
	data, err := json.MarshalIndent(storedTokens{Access: m.access, Refresh: m.refresh}, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(m.statePath, data, 0o600); err != nil {
		m.log.WithField("error", err.Error()).Warn("could not persist tokens")
	}
}

func (m *Manager) loadTokens() {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return
	}
	var st storedTokens
	if err := json.Unmarshal(data, &st); err != nil {
		return
	}
	m.access = st.Access
	m.refresh = st.Refresh
}
