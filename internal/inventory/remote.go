package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/logging"
)

const (
	// wsHandshakeTimeout bounds the WebSocket upgrade.
	wsHandshakeTimeout = 10 * time.Second

	// tokenExpiryWarning is how close to expiry a long-lived access token
	// may get before startup warns about it.
	tokenExpiryWarning = 30 * 24 * time.Hour
)

// RemoteSource queries a running Home Assistant instance.
//
// Entity states come from the REST API. The area, device and entity
// registries are only served over the WebSocket API, so those go through
// a short-lived authenticated WebSocket session, with a REST fallback
// for proxies that expose registry exports as plain endpoints.
type RemoteSource struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logging.Logger
}

// NewRemoteSource builds a remote source from the settings. The access
// token is inspected (not verified) and a warning is logged when it
// expires within thirty days.
func NewRemoteSource(cfg config.RemoteConfig, log *logging.Logger) (*RemoteSource, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: no access token (set HASS_TOKEN)", ErrAuthFailed)
	}
	if log == nil {
		log = logging.Default()
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &RemoteSource{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	s.warnIfTokenExpiring()
	return s, nil
}

// warnIfTokenExpiring decodes the access token without verifying its
// signature and warns when its expiry is near. Long-lived tokens are
// valid for ten years, so a warning here usually means someone pasted a
// short-lived session token into the settings.
func (s *RemoteSource) warnIfTokenExpiring() {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, claims); err != nil {
		// Not a JWT. Some proxies accept opaque tokens; nothing to check.
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	until := time.Until(exp.Time)
	if until < 0 {
		s.log.Warn("access token is expired", "expired_at", exp.Time)
	} else if until < tokenExpiryWarning {
		s.log.Warn("access token expires soon", "expires_at", exp.Time)
	}
}

// Name identifies the backend in logs and telemetry.
func (s *RemoteSource) Name() string { return "remote" }

// States returns the current state of every known entity via GET
// /api/states.
func (s *RemoteSource) States(ctx context.Context) ([]State, error) {
	var raw []struct {
		EntityID   string         `json:"entity_id"`
		State      string         `json:"state"`
		Attributes map[string]any `json:"attributes"`
	}
	if err := s.getJSON(ctx, "/api/states", &raw); err != nil {
		return nil, err
	}

	states := make([]State, 0, len(raw))
	for _, r := range raw {
		st := State{EntityID: r.EntityID, State: r.State}
		if name, ok := r.Attributes["friendly_name"].(string); ok {
			st.FriendlyName = name
		}
		states = append(states, st)
	}
	return states, nil
}

// Areas returns the area registry.
func (s *RemoteSource) Areas(ctx context.Context) ([]Area, error) {
	var raw []struct {
		AreaID string `json:"area_id"`
		Name   string `json:"name"`
	}
	if err := s.registry(ctx, "config/area_registry/list", "/api/areas", &raw); err != nil {
		return nil, err
	}

	areas := make([]Area, 0, len(raw))
	for _, r := range raw {
		areas = append(areas, Area{ID: r.AreaID, Name: r.Name})
	}
	return areas, nil
}

// Devices returns the device registry.
func (s *RemoteSource) Devices(ctx context.Context) ([]Device, error) {
	var raw []struct {
		ID         string `json:"id"`
		AreaID     string `json:"area_id"`
		Name       string `json:"name"`
		NameByUser string `json:"name_by_user"`
	}
	if err := s.registry(ctx, "config/device_registry/list", "/api/devices", &raw); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(raw))
	for _, r := range raw {
		name := r.NameByUser
		if name == "" {
			name = r.Name
		}
		devices = append(devices, Device{ID: r.ID, AreaID: r.AreaID, Name: name})
	}
	return devices, nil
}

// Entities returns the entity registry.
func (s *RemoteSource) Entities(ctx context.Context) ([]Entity, error) {
	var raw []struct {
		EntityID     string `json:"entity_id"`
		DeviceID     string `json:"device_id"`
		AreaID       string `json:"area_id"`
		Name         string `json:"name"`
		OriginalName string `json:"original_name"`
	}
	if err := s.registry(ctx, "config/entity_registry/list", "/api/entities", &raw); err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(raw))
	for _, r := range raw {
		name := r.Name
		if name == "" {
			name = r.OriginalName
		}
		entities = append(entities, Entity{
			EntityID: r.EntityID,
			DeviceID: r.DeviceID,
			AreaID:   r.AreaID,
			Name:     name,
		})
	}
	return entities, nil
}

// Close releases the backend's resources. The HTTP client holds none.
func (s *RemoteSource) Close() error { return nil }

// registry fetches a registry list, preferring the WebSocket command and
// falling back to a REST path when the WebSocket session fails.
func (s *RemoteSource) registry(ctx context.Context, wsCommand, restPath string, out any) error {
	result, err := s.wsCommand(ctx, wsCommand)
	if err == nil {
		if jsonErr := json.Unmarshal(result, out); jsonErr != nil {
			return fmt.Errorf("%w: decoding %s result: %w", ErrRequestFailed, wsCommand, jsonErr)
		}
		return nil
	}

	s.log.Warn("websocket registry fetch failed, falling back to REST",
		"command", wsCommand, "error", err)
	return s.getJSON(ctx, restPath, out)
}

// wsMessage is the subset of the WebSocket protocol envelope we need.
type wsMessage struct {
	ID      int             `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success bool            `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// wsCommand opens an authenticated WebSocket session, issues a single
// command and returns its result. The session protocol is: the server
// greets with auth_required, the client sends the token, the server
// answers auth_ok or auth_invalid, then commands flow with incrementing
// IDs.
func (s *RemoteSource) wsCommand(ctx context.Context, command string) (json.RawMessage, error) {
	wsURL, err := websocketURL(s.baseURL)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %w", ErrRequestFailed, wsURL, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck // Handshake response body is already consumed
	}
	defer conn.Close() //nolint:errcheck // Read side is done when we return

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	var greeting wsMessage
	if err := conn.ReadJSON(&greeting); err != nil {
		return nil, fmt.Errorf("%w: reading greeting: %w", ErrRequestFailed, err)
	}
	if greeting.Type != "auth_required" {
		return nil, fmt.Errorf("%w: unexpected greeting %q", ErrRequestFailed, greeting.Type)
	}

	if err := conn.WriteJSON(map[string]string{
		"type":         "auth",
		"access_token": s.token,
	}); err != nil {
		return nil, fmt.Errorf("%w: sending auth: %w", ErrRequestFailed, err)
	}

	var authResp wsMessage
	if err := conn.ReadJSON(&authResp); err != nil {
		return nil, fmt.Errorf("%w: reading auth response: %w", ErrRequestFailed, err)
	}
	if authResp.Type != "auth_ok" {
		return nil, fmt.Errorf("%w: websocket auth rejected (%s)", ErrAuthFailed, authResp.Type)
	}

	if err := conn.WriteJSON(map[string]any{
		"id":   1,
		"type": command,
	}); err != nil {
		return nil, fmt.Errorf("%w: sending %s: %w", ErrRequestFailed, command, err)
	}

	// Skip unrelated event frames until our result arrives.
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil, fmt.Errorf("%w: reading %s result: %w", ErrRequestFailed, command, err)
		}
		if msg.Type != "result" || msg.ID != 1 {
			continue
		}
		if !msg.Success {
			return nil, fmt.Errorf("%w: %s returned failure", ErrRequestFailed, command)
		}
		return msg.Result, nil
	}
}

// getJSON issues an authenticated GET and decodes the JSON response.
func (s *RemoteSource) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: GET %s returned %d", ErrAuthFailed, path, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: GET %s returned %d", ErrRequestFailed, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %w", ErrRequestFailed, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrRequestFailed, path, err)
	}
	return nil
}

// websocketURL converts the configured base URL to the WebSocket
// endpoint, mapping http(s) to ws(s).
func websocketURL(baseURL string) (string, error) {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/api/websocket", nil
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/api/websocket", nil
	default:
		return "", fmt.Errorf("%w: unsupported URL scheme in %q", ErrRequestFailed, baseURL)
	}
}
