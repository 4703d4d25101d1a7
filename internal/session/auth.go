package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// User is the profile the authenticator returns on login and profile reads.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

// Login authenticates against the backend and stores the issued token pair.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		User    User   `json:"user"`
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := m.postJSON(ctx, "/authenticator/login/", body, &out); err != nil {
		return nil, err
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, faults.NewMalformedResponse("login response missing tokens", nil)
	}

	m.mu.Lock()
	m.access = out.Access
	m.refresh = out.Refresh
	m.saveLocked()
	m.mu.Unlock()

	m.log.WithField("email", email).Info("logged in")
	return &out.User, nil
}

// Logout clears the local session and best-effort notifies the backend.
// A failed notification never blocks local cleanup.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refresh := m.refresh
	access := m.access
	m.clearLocked()
	m.mu.Unlock()

	if refresh == "" {
		return
	}

	payload, _ := json.Marshal(map[string]string{"refresh": refresh})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/authenticator/logout/", bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := m.hc.Do(req)
	if err != nil {
		m.log.WithField("error", err.Error()).Warn("logout notification failed")
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	m.log.Info("logged out")
}

// Profile fetches the authenticated user's profile. Routed through Do, so an
// expired access token is refreshed transparently.
func (m *Manager) Profile(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/authenticator/profile/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.NewNetworkFailure(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, faults.NewServerError(resp.StatusCode, string(body))
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, faults.NewMalformedResponse("unexpected profile response", err)
	}
	return &user, nil
}

// postJSON sends an unauthenticated JSON request to an authenticator endpoint
// and decodes the response. 401 maps to Unauthorized (bad credentials or
// rejected refresh token), other failure statuses to ServerError.
func (m *Manager) postJSON(ctx context.Context, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.hc.Do(req)
	if err != nil {
		return faults.NewNetworkFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return faults.NewNetworkFailure(err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return faults.NewUnauthorized("credentials rejected")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return faults.NewServerError(resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return faults.NewMalformedResponse(fmt.Sprintf("unexpected response from %s", path), err)
	}
	return nil
}
