// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // chart formats
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/datachat-tui/internal/logger"
)

// Configuration constants for the analysis service.
const (
	// DefaultBaseURL is where the service listens in a local setup.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultChatPath is the exchange endpoint.
	DefaultChatPath = "/chat/"

	// DefaultProbePath is the liveness endpoint.
	DefaultProbePath = "/"

	// DefaultProbeTimeout bounds the startup probe.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultImageTimeout bounds a chart download.
	DefaultImageTimeout = 30 * time.Second

	// MaxResponseSize is the largest reply body read from /chat/.
	MaxResponseSize = 10 * 1024 * 1024

	// MaxImageSize is the largest chart image read.
	MaxImageSize = 20 * 1024 * 1024
)

// sharedHTTPClient has no timeout: the chat exchange waits as long as the
// service needs. Probe and image requests are bounded by their contexts.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrResponseTooLarge is returned when a body exceeds its size limit.
	ErrResponseTooLarge = errors.New("response exceeded maximum size")

	// ErrEmptyReference is returned by ResolveRef for an empty image reference.
	ErrEmptyReference = errors.New("empty image reference")
)

// TransportError means no HTTP response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned by Probe and FetchImage for non-2xx replies.
type StatusError struct {
	Status     int
	StatusText string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.Status, e.StatusText)
}

// IsTransport reports whether err means the service could not be reached.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Upload is the file part of a chat exchange.
type Upload struct {
	Name      string
	MediaType string
	Body      io.Reader
}

// Reply is the raw outcome of a chat exchange that produced an HTTP response.
type Reply struct {
	Status     int
	StatusText string
	Body       []byte
	Elapsed    time.Duration
}

// OK reports a 2xx status.
func (r *Reply) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Payload is the JSON object the service answers with. Every member is
// optional. Non-string members are rendered as compact JSON. Detail is kept
// raw because frameworks emit both strings and structured validation lists
// there.
type Payload struct {
	Response string          `json:"response"`
	ImageURL string          `json:"image_url"`
	Error    string          `json:"error"`
	Detail   json.RawMessage `json:"detail"`
}

// DecodePayload parses body as a JSON object. It reports false for anything
// that is not an object, including arrays and bare strings.
func DecodePayload(body []byte) (Payload, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Payload{}, false
	}
	var raw struct {
		Response json.RawMessage `json:"response"`
		ImageURL json.RawMessage `json:"image_url"`
		Error    json.RawMessage `json:"error"`
		Detail   json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Payload{}, false
	}
	return Payload{
		Response: rawText(raw.Response),
		ImageURL: rawText(raw.ImageURL),
		Error:    rawText(raw.Error),
		Detail:   raw.Detail,
	}, true
}

// DetailText renders the detail member as display text. Strings are used
// as-is; any other JSON value is shown compactly.
func (p Payload) DetailText() string {
	return rawText(p.Detail)
}

// rawText renders a JSON member for display. Strings are unquoted, null and
// absent members are empty, and other values are compacted.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to one analysis service.
type Client struct {
	baseURL      string
	chatPath     string
	probePath    string
	probeTimeout time.Duration
	imageTimeout time.Duration
	httpClient   *http.Client
	log          *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		chatPath:     DefaultChatPath,
		probePath:    DefaultProbePath,
		probeTimeout: DefaultProbeTimeout,
		imageTimeout: DefaultImageTimeout,
		httpClient:   sharedHTTPClient,
		log:          logger.ComponentLogger("analysis"),
	}
}

// WithChatPath sets the exchange endpoint path.
func (c *Client) WithChatPath(path string) *Client {
	c.chatPath = path
	return c
}

// WithProbePath sets the liveness endpoint path.
func (c *Client) WithProbePath(path string) *Client {
	c.probePath = path
	return c
}

// WithImageTimeout sets the chart download timeout.
func (c *Client) WithImageTimeout(d time.Duration) *Client {
	if d > 0 {
		c.imageTimeout = d
	}
	return c
}

// WithProbeTimeout sets the startup probe timeout.
func (c *Client) WithProbeTimeout(d time.Duration) *Client {
	if d > 0 {
		c.probeTimeout = d
	}
	return c
}

// WithHTTPClient replaces the shared HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the service origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHAT
// =============================================================================

// Chat posts one question with one file. Any HTTP response, whatever its
// status, is returned as a Reply. A *TransportError is returned when no
// response was received.
func (c *Client) Chat(ctx context.Context, upload Upload, question string) (*Reply, error) {
	endpoint := c.baseURL + c.chatPath

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, upload, question))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.log.Info("sending question", "url", endpoint, "file", upload.Name, "questionLen", len(question))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.Close()
		c.log.Warn("exchange failed", "url", endpoint, "error", err)
		return nil, &TransportError{Method: http.MethodPost, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, MaxResponseSize)
	if err != nil {
		if errors.Is(err, ErrResponseTooLarge) {
			return nil, err
		}
		return nil, &TransportError{Method: http.MethodPost, URL: endpoint, Err: err}
	}

	reply := &Reply{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Body:       body,
		Elapsed:    time.Since(start),
	}
	c.log.Info("reply received", "status", reply.Status, "bytes", len(body), "elapsed", reply.Elapsed)
	c.log.Debug("reply body", "body", string(body))
	return reply, nil
}

func writeMultipart(mw *multipart.Writer, upload Upload, question string) error {
	mediaType := upload.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(upload.Name)))
	h.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if upload.Body != nil {
		if _, err := io.Copy(part, upload.Body); err != nil {
			return fmt.Errorf("failed to read %s: %w", upload.Name, err)
		}
	}
	if err := mw.WriteField("question", question); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// statusText returns the reason phrase the server sent, falling back to the
// standard text for the code.
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// readLimited reads at most limit bytes and fails if the body is longer.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrResponseTooLarge, limit)
	}
	return body, nil
}

// =============================================================================
// PROBE
// =============================================================================

// Probe requests the liveness endpoint. It returns nil for a 2xx reply.
func (c *Client) Probe(ctx context.Context) error {
	endpoint := c.baseURL + c.probePath
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("analysis service unreachable", "url", endpoint, "error", err)
		return &TransportError{Method: http.MethodGet, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("analysis service responded with error status", "url", endpoint, "status", resp.StatusCode)
		return &StatusError{Status: resp.StatusCode, StatusText: statusText(resp), URL: endpoint}
	}
	c.log.Info("analysis service connected", "url", endpoint)
	return nil
}

// =============================================================================
// CHART IMAGES
// =============================================================================

// ResolveRef turns an image reference from a reply into an absolute URL.
// Absolute references are returned unchanged; anything else is resolved
// against the service origin.
func (c *Client) ResolveRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyReference
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid image reference %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return base.ResolveReference(u).String(), nil
}

// Chart is a downloaded and decoded chart image.
type Chart struct {
	URL    string
	Format string
	Image  image.Image
}

// FetchImage downloads and decodes the chart at ref.
func (c *Client) FetchImage(ctx context.Context, ref string) (*Chart, error) {
	endpoint, err := c.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, StatusText: statusText(resp), URL: endpoint}
	}

	data, err := readLimited(resp.Body, MaxImageSize)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode chart %s: %w", endpoint, err)
	}
	c.log.Debug("chart loaded", "url", endpoint, "format", format, "bounds", img.Bounds().String())
	return &Chart{URL: endpoint, Format: format, Image: img}, nil
}
