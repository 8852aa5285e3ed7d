package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	templateFetchPath  = "/api/product.template/%d"
	templateUpdatePath = "/api/product.template/update"
)

// Client implements the RemotePlatform port over the platform's JSON HTTP API.
// Failures are classified into the integration sentinel errors: 401/403 as
// ErrRemoteAuth, other 4xx as ErrRemoteValidation carrying the remote message,
// 5xx and transport errors as ErrRemoteServer. No retries are performed.
type Client struct {
	baseURL     string
	language    string
	maxBodySize int64
	httpClient  *http.Client
	log         *zap.Logger
}

var _ integration.RemotePlatform = (*Client)(nil)

// NewClient creates a new remote platform client
func NewClient(cfg *config.RemoteConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		language:    cfg.Language,
		maxBodySize: cfg.MaxBodySize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.Named("remote"),
	}
}

// FetchTemplate retrieves the authoritative current document for a product
// template
func (c *Client) FetchTemplate(ctx context.Context, token string, templateID int64) (integration.RemoteDocument, error) {
	url := c.baseURL + fmt.Sprintf(templateFetchPath, templateID)

	body, err := c.doRequest(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return nil, err
	}

	var doc integration.RemoteDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed template document: %v", integration.ErrRemoteServer, err)
	}

	c.log.Debug("Fetched remote template",
		zap.Int64("template_id", templateID),
		zap.Int("body_bytes", len(body)))

	return doc, nil
}

// UpdateTemplate submits a whole document to the fixed update endpoint
func (c *Client) UpdateTemplate(ctx context.Context, token string, doc integration.RemoteDocument) (*integration.UpdateResult, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to marshal document: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+templateUpdatePath, token, payload)
	if err != nil {
		return nil, err
	}

	var echoed integration.RemoteDocument
	if len(body) > 0 {
		if err := json.Unmarshal(body, &echoed); err != nil {
			return nil, fmt.Errorf("%w: malformed update response: %v", integration.ErrRemoteServer, err)
		}
	}

	result := &integration.UpdateResult{
		TemplateID: doc.TemplateID(),
		Document:   echoed,
	}
	if echoed != nil {
		if id := echoed.TemplateID(); id != 0 {
			result.TemplateID = id
		}
		result.VariantIDs = extractVariantIDs(echoed)
	}

	c.log.Info("Submitted template update",
		zap.Int64("template_id", result.TemplateID),
		zap.Int("assigned_ids", len(result.VariantIDs)))

	return result, nil
}

// doRequest performs one HTTP exchange and classifies the response
func (c *Client) doRequest(ctx context.Context, method, url, token string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.language)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrRemoteServer, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrRemoteServer, err)
	}

	c.log.Debug("Remote call completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrRemoteAuth, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrRemoteServer, resp.StatusCode)
	case resp.StatusCode >= 400:
		if msg := parseRemoteError(body); msg != "" {
			return nil, fmt.Errorf("%w: %s", integration.ErrRemoteValidation, msg)
		}
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrRemoteValidation, resp.StatusCode)
	}

	return body, nil
}

// remoteErrorBody is the error shape the platform returns on 4xx responses
type remoteErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// parseRemoteError extracts the remote-supplied message from an error body,
// or returns "" when the body does not carry one
func parseRemoteError(body []byte) string {
	var parsed remoteErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}

// extractVariantIDs collects the variant identifiers the platform assigned in
// the echoed document, in document order
func extractVariantIDs(doc integration.RemoteDocument) []int64 {
	variants, ok := doc[integration.DocKeyVariants].([]any)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(variants))
	for _, raw := range variants {
		variant, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := variant[integration.DocKeyID].(float64); ok {
			ids = append(ids, int64(id))
		}
	}
	return ids
}
