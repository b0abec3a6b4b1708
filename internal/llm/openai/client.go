package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/llm"
)

// Extract implements llm.Client against a chat/completions endpoint with
// vision content parts. One backend call per invocation, no retry here.
//
// Credential material is loaded immediately before the call and wiped on
// every exit path, success or failure.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"images", len(req.Images),
		"temp", req.Temperature,
		"max_tokens", req.MaxOutputTokens,
	)

	cred, err := llm.LoadCredential(c.cfg.CredentialFile)
	if err != nil {
		c.logger.Error("llm.extract.credential_error", "req_id", rid, "error", err)
		return "", err
	}
	defer cred.Wipe()

	// Images first, in upload order, then the instruction as the last part.
	content := make([]map[string]any, 0, len(req.Images)+1)
	for _, img := range req.Images {
		content = append(content, map[string]any{
			"type": "image_url",
			"image_url": map[string]any{
				"url": dataURL(img),
			},
		})
	}
	content = append(content, map[string]any{
		"type": "text",
		"text": req.Instruction,
	})

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxOutputTokens,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, cred.APIKey, cred.ProjectID, body)
	if err != nil {
		c.logger.Error("llm.extract.call_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError("SERVICE_ERROR", "undecodable backend response", common.ErrService)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError("SERVICE_ERROR", "no choices in backend response", common.ErrService)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"reply_len", len(cc.Choices[0].Message.Content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cc.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, url, apiKey, projectID string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("OpenAI-Project", projectID)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		// Timeouts and refused connections both land here.
		return nil, common.NewAppError("TRANSPORT_ERROR", err.Error(), common.ErrTransport)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("llm.http.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, common.NewAppError("CREDENTIAL_ERROR",
			fmt.Sprintf("backend rejected credential: status %d", resp.StatusCode), common.ErrCredential)
	case resp.StatusCode/100 != 2:
		return nil, common.NewAppError("SERVICE_ERROR",
			fmt.Sprintf("backend status %d: %s", resp.StatusCode, truncate(string(raw), 300)), common.ErrService)
	}
	return raw, nil
}

func dataURL(img llm.ImageInput) string {
	return "data:" + img.MediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Bytes)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
