// Package backend provides the HTTP client for the remote inventory service.
//
// The remote service owns products, plantillas, conteos and users; the
// station only mirrors the active count. Calls are at-most-once: there is no
// retry policy, a failed call surfaces its error and leaves local state
// untouched.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"conteo-station/config"
	"conteo-station/internal/domain/model"
	"conteo-station/internal/metrics"
)

// ErrNoAutorizado is returned when the backend rejects the station's token
// and a re-login with the configured credentials did not help.
var ErrNoAutorizado = errors.New("backend: unauthorized")

// APIError is a non-2xx backend response, carrying the server-supplied
// message when one was present.
type APIError struct {
	Status  int
	Message string
}

// Error returns the error message for APIError.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: unexpected status %d", e.Status)
}

// Client defines the operations consumed from the remote inventory service.
type Client interface {
	// Plantillas lists all count templates.
	Plantillas(ctx context.Context) ([]model.Plantilla, error)
	// Plantilla fetches one template by id.
	Plantilla(ctx context.Context, id int64) (*model.Plantilla, error)
	// CrearConteo creates a count scoped to a plantilla and returns its id.
	CrearConteo(ctx context.Context, plantillaID int64) (*model.Conteo, error)
	// Conteo fetches a count fully hydrated with its entry list.
	Conteo(ctx context.Context, id int64) (*model.Conteo, error)
	// Conteos lists all counts.
	Conteos(ctx context.Context) ([]model.Conteo, error)
	// ActualizarCantidad writes the counted quantity for one product.
	ActualizarCantidad(ctx context.Context, conteoID, productoID int64, cantidadReal int) error
	// FinalizarConteo marks a count terminal.
	FinalizarConteo(ctx context.Context, id int64) error
	// EliminarConteo deletes a count.
	EliminarConteo(ctx context.Context, id int64) error
}

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL  string
	usuario  string
	password string
	http     *http.Client
	logger   zerolog.Logger

	mu    sync.Mutex
	token string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithToken seeds the client with an already-issued bearer token.
func WithToken(token string) Option {
	return func(c *HTTPClient) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// NewHTTPClient creates a backend client from configuration.
func NewHTTPClient(cfg config.BackendConfig, logger zerolog.Logger, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:  cfg.BaseURL,
		usuario:  cfg.Usuario,
		password: cfg.Password,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's response wrapper {success, data, message}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// loginResponse is the payload of POST /auth/login.
type loginResponse struct {
	Token string        `json:"token"`
	User  model.Usuario `json:"user"`
}

// ensureToken makes sure a usable bearer token is held, logging in with the
// configured credentials when the current one is absent or about to expire.
func (c *HTTPClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && !tokenExpirado(c.token, time.Now()) {
		return c.token, nil
	}
	if c.usuario == "" {
		if c.token != "" {
			// No credentials to refresh with; let the backend judge it.
			return c.token, nil
		}
		return "", ErrNoAutorizado
	}

	body, err := json.Marshal(map[string]string{
		"usuario":  c.usuario,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("backend login: decode: %w", err)
	}
	var login loginResponse
	if err := json.Unmarshal(env.Data, &login); err != nil {
		return "", fmt.Errorf("backend login: decode: %w", err)
	}

	c.token = login.Token
	c.logger.Info().Str("usuario", login.User.Usuario).Msg("Authenticated against inventory backend")
	return c.token, nil
}

// do performs one authenticated request and decodes the enveloped payload
// into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RecordBackendCall(method, path, time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return ErrNoAutorizado
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("backend %s %s: decode: %w", method, path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("backend %s %s: decode: %w", method, path, err)
	}
	return nil
}

// readMessage extracts the server-supplied message from an error body.
func readMessage(r io.Reader) string {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return ""
	}
	return env.Message
}

// Plantillas lists all count templates.
func (c *HTTPClient) Plantillas(ctx context.Context) ([]model.Plantilla, error) {
	var plantillas []model.Plantilla
	if err := c.do(ctx, http.MethodGet, "/plantillas", nil, &plantillas); err != nil {
		return nil, err
	}
	return plantillas, nil
}

// Plantilla fetches one template by id.
func (c *HTTPClient) Plantilla(ctx context.Context, id int64) (*model.Plantilla, error) {
	var plantilla model.Plantilla
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/plantillas/%d", id), nil, &plantilla); err != nil {
		return nil, err
	}
	return &plantilla, nil
}

// CrearConteo creates a count scoped to a plantilla.
func (c *HTTPClient) CrearConteo(ctx context.Context, plantillaID int64) (*model.Conteo, error) {
	var conteo model.Conteo
	body := map[string]int64{"plantilla_id": plantillaID}
	if err := c.do(ctx, http.MethodPost, "/conteos", body, &conteo); err != nil {
		return nil, err
	}
	return &conteo, nil
}

// Conteo fetches a count fully hydrated with its entry list.
func (c *HTTPClient) Conteo(ctx context.Context, id int64) (*model.Conteo, error) {
	var conteo model.Conteo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/conteos/%d", id), nil, &conteo); err != nil {
		return nil, err
	}
	return &conteo, nil
}

// Conteos lists all counts.
func (c *HTTPClient) Conteos(ctx context.Context) ([]model.Conteo, error) {
	var conteos []model.Conteo
	if err := c.do(ctx, http.MethodGet, "/conteos", nil, &conteos); err != nil {
		return nil, err
	}
	return conteos, nil
}

// ActualizarCantidad writes the counted quantity for one product.
func (c *HTTPClient) ActualizarCantidad(ctx context.Context, conteoID, productoID int64, cantidadReal int) error {
	path := fmt.Sprintf("/conteos/%d/productos/%d", conteoID, productoID)
	body := map[string]int{"cantidad_real": cantidadReal}
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// FinalizarConteo marks a count terminal.
func (c *HTTPClient) FinalizarConteo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/conteos/%d/finalizar", id), nil, nil)
}

// EliminarConteo deletes a count.
func (c *HTTPClient) EliminarConteo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/conteos/%d", id), nil, nil)
}
