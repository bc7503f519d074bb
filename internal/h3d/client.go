// Package h3d is the HTTP client for the Hunyuan 3D creation API.
package h3d

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"h3dstudio/internal/models"
)

const (
	generationsPath = "/api/3d/creations/generations"
	creationsPath   = "/api/3d/creations/"

	tokenCookie  = "hy_token"
	userIDCookie = "hy_user"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	maxErrorBody = 4 << 10
)

var (
	ErrNoSession = errors.New("no session credentials, log in first")
	ErrSubmit    = errors.New("generation request failed")
	ErrStatus    = errors.New("creation status request failed")
)

// Credentials is the cookie login of a Hunyuan 3D account.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// CredentialsSource provides the current session. It returns ErrNoSession
// when the user has not logged in.
type CredentialsSource interface {
	Load() (*Credentials, error)
}

type Client struct {
	baseURL    string
	http       *http.Client
	creds      CredentialsSource
	logger     *zap.Logger
	newTraceID func() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(baseURL string, creds CredentialsSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
		logger:     zap.NewNop(),
		newTraceID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With(zap.String("component", "h3d"))
	return c
}

type generationPayload struct {
	Prompt           string  `json:"prompt"`
	Title            string  `json:"title"`
	Style            string  `json:"style"`
	SceneType        string  `json:"sceneType"`
	ModelType        string  `json:"modelType"`
	Count            int     `json:"count"`
	EnablePBR        bool    `json:"enable_pbr"`
	EnableLowPoly    bool    `json:"enableLowPoly"`
	OctreeResolution int     `json:"octreeResolution"`
	InferenceSteps   int     `json:"inferenceSteps"`
	GuidanceScale    float64 `json:"guidanceScale"`
	FaceCount        int     `json:"faceCount"`
	Image            string  `json:"image,omitempty"`
	RemoveBackground *bool   `json:"removeBackground,omitempty"`
}

func newGenerationPayload(req models.GenerationRequest) generationPayload {
	p := generationPayload{
		Prompt:           req.Prompt,
		Title:            req.Title,
		Style:            req.Style,
		SceneType:        models.DefaultSceneType,
		ModelType:        models.DefaultModelType,
		Count:            req.Count,
		EnablePBR:        req.EnablePBR,
		EnableLowPoly:    req.EnableLowPoly,
		OctreeResolution: req.OctreeResolution,
		InferenceSteps:   req.InferenceSteps,
		GuidanceScale:    req.GuidanceScale,
		FaceCount:        req.FaceCount,
	}
	if req.HasImage() {
		p.Image = req.ImageDataURI()
		removeBackground := req.RemoveBackground
		p.RemoveBackground = &removeBackground
	}
	return p
}

type generationResponse struct {
	CreationsID string `json:"creationsId"`
}

// Submit sends a generation request and returns the creation id.
func (c *Client) Submit(ctx context.Context, req models.GenerationRequest) (string, error) {
	body, err := json.Marshal(newGenerationPayload(req))
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %v", ErrSubmit, err)
	}

	var out generationResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+generationsPath, body, &out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	if out.CreationsID == "" {
		return "", fmt.Errorf("%w: response has no creation id", ErrSubmit)
	}
	c.logger.Info("generation submitted",
		zap.String("creation_id", out.CreationsID),
		zap.Int("count", req.Count),
		zap.Bool("image", req.HasImage()),
	)
	return out.CreationsID, nil
}

// FetchStatus returns the current snapshot of a creation.
func (c *Client) FetchStatus(ctx context.Context, creationID string) (*models.CreationDetails, error) {
	if creationID == "" {
		return nil, fmt.Errorf("%w: creation id is required", ErrStatus)
	}
	var out models.CreationDetails
	if err := c.do(ctx, http.MethodGet, c.baseURL+creationsPath+url.PathEscape(creationID), nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatus, err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	traceID := c.newTraceID()
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-product", "hunyuan3d")
	req.Header.Set("x-source", "web")
	req.Header.Set("trace-id", traceID)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("request rejected",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("trace_id", traceID),
		)
		return fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.creds == nil {
		return ErrNoSession
	}
	creds, err := c.creds.Load()
	if err != nil {
		return err
	}
	if creds == nil || creds.Token == "" {
		return ErrNoSession
	}
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: creds.Token})
	if creds.UserID != "" {
		req.AddCookie(&http.Cookie{Name: userIDCookie, Value: creds.UserID})
	}
	return nil
}
