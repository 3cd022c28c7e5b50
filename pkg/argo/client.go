// Package argo is a minimal client for the Argo server REST API, covering
// the endpoints nbflow needs to register workflow templates.
package argo

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	clog "github.com/lcastro/nbflow/pkg/log"
	"github.com/lcastro/nbflow/pkg/retry"
	"github.com/lcastro/nbflow/pkg/template"
)

// Config is the connection configuration for one client. It is threaded
// in explicitly; there is no package-level server state.
type Config struct {
	ServerURL          string
	Namespace          string
	Token              string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

type Client struct {
	cfg   Config
	http  *http.Client
	retry retry.Config
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("argo server URL not configured. Set server_url or NBFLOW_SERVER_URL")
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("argo namespace not configured")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout, Transport: transport},
		retry: retry.DefaultConfig(),
	}, nil
}

// createTemplateRequest is the Argo server body for template creation.
type createTemplateRequest struct {
	Namespace string                     `json:"namespace,omitempty"`
	Template  *template.WorkflowTemplate `json:"template"`
}

// CreateWorkflowTemplate registers the template in the configured
// namespace. Transport errors and 5xx responses are retried with backoff;
// 4xx responses fail immediately.
func (c *Client) CreateWorkflowTemplate(ctx context.Context, tmpl *template.WorkflowTemplate) error {
	body, err := json.Marshal(createTemplateRequest{
		Namespace: c.cfg.Namespace,
		Template:  tmpl,
	})
	if err != nil {
		return fmt.Errorf("failed to encode workflow template: %w", err)
	}

	url := c.endpoint("/api/v1/workflow-templates/" + c.cfg.Namespace)

	_, err = retry.Do(ctx, c.retry, func() (struct{}, error) {
		return struct{}{}, c.post(ctx, url, body)
	})
	if err != nil {
		return err
	}

	clog.Info("workflow template registered",
		"name", tmpl.Metadata.Name,
		"namespace", c.cfg.Namespace,
	)
	return nil
}

// Version fetches the Argo server version, used as a connectivity check.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/v1/version"), http.NoBody)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("argo server unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp.StatusCode, nil)
	}

	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse version response: %w", err)
	}
	return out.Version, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return retry.Transient(fmt.Errorf("argo server request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := c.apiError(resp.StatusCode, respBody)
	if resp.StatusCode >= 500 {
		return retry.Transient(apiErr)
	}
	return apiErr
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}

func (c *Client) endpoint(p string) string {
	return strings.TrimRight(c.cfg.ServerURL, "/") + p
}

// apiError maps server responses to actionable messages.
func (c *Client) apiError(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("argo server error: authentication failed. Check NBFLOW_TOKEN")
	case http.StatusForbidden:
		return fmt.Errorf("argo server error: access denied. Check RBAC permissions for creating WorkflowTemplates in namespace %q", c.cfg.Namespace)
	case http.StatusNotFound:
		return fmt.Errorf("argo server error: not found. Verify the server URL and that namespace %q exists", c.cfg.Namespace)
	case http.StatusConflict:
		return fmt.Errorf("argo server error: a workflow template with this name already exists in namespace %q", c.cfg.Namespace)
	default:
		if detail != "" {
			return fmt.Errorf("argo server error: HTTP %d: %s", status, detail)
		}
		return fmt.Errorf("argo server error: HTTP %d", status)
	}
}
