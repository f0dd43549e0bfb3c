// Package client is the jokes API client: the HTTP service, the jokes store
// with its pagination state, and user-facing notifications.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is returned by HTTPService.Get
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// API is the subset of HTTPService the jokes store depends on
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// HTTPService calls the jokes API. Paths are appended to the base URL as is.
type HTTPService struct {
	baseURL string
	http    *http.Client
}

type HTTPOption func(*HTTPService)

func WithHTTPClient(h *http.Client) HTTPOption {
	return func(s *HTTPService) { s.http = h }
}

// WithTimeout sets the request timeout on a copy of the current client, so a
// shared client such as http.DefaultClient is left untouched.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPService) {
		if d > 0 {
			s.http = &http.Client{
				Transport:     s.http.Transport,
				CheckRedirect: s.http.CheckRedirect,
				Jar:           s.http.Jar,
				Timeout:       d,
			}
		}
	}
}

func NewHTTPService(baseURL string, opts ...HTTPOption) (*HTTPService, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("api base url must be absolute, got %q", baseURL)
	}
	s := &HTTPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *HTTPService) withBase(path string) string {
	return s.baseURL + path
}

// Get decodes a JSON response into out. Every failure is a *StatusError;
// transport failures report status 500.
func (s *HTTPService) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.withBase(path), nil)
	if err != nil {
		return &StatusError{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return &StatusError{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if msg == "" {
			msg = "Unknown error"
		}
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if err := decodeBody(resp.Body, out); err != nil {
		return &StatusError{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	return nil
}

// Post sends body as JSON. Unlike Get, errors are plain: the transport error
// itself, or one carrying the status text.
func (s *HTTPService) Post(ctx context.Context, path string, body, out any) error {
	return s.send(ctx, http.MethodPost, path, body, out)
}

// Put behaves like Post
func (s *HTTPService) Put(ctx context.Context, path string, body, out any) error {
	return s.send(ctx, http.MethodPut, path, body, out)
}

// Delete succeeds only on 200 or 204
func (s *HTTPService) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.withBase(path), nil)
	if err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPService) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, s.withBase(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return decodeBody(resp.Body, out)
}

// decodeBody reads JSON into out; an empty body leaves out untouched
func decodeBody(r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
