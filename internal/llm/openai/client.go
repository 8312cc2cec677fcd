package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-validator/internal/common"
	"github.com/joseph-ayodele/invoice-validator/internal/llm"
)

// ExtractLineItems implements llm.DocumentExtractor using vision chat
// completions. The invoice page travels as a data-URL image part; every
// element of the reply is sanitized and schema-checked before it becomes a
// typed row, and invalid elements are dropped with a warning.
func (c *Client) ExtractLineItems(ctx context.Context, path string) ([]llm.LineItemFields, error) {
	reqID := requestID(ctx)
	ctx = common.WithRequestID(ctx, reqID)
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", reqID,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"file", filepath.Base(path),
	)

	dataURL, err := c.imageForDocument(ctx, path)
	if err != nil {
		c.logger.Error("llm.extract.prepare_failed",
			"req_id", reqID, "file", filepath.Base(path), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("prepare document image: %w", err)
	}

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildInvoicePrompt()},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": "Extract every line item from this tax invoice."},
				{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
			}},
		},
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	rawItems, err := llm.DecodeLineItems(content)
	if err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", reqID, "error", err, "content", truncate(content, 500),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.WrapError(err, "decode model reply")
	}

	out := make([]llm.LineItemFields, 0, len(rawItems))
	for i, raw := range rawItems {
		clean, dropped := llm.SanitizeLineItem(raw)
		if len(dropped) > 0 {
			c.logger.Warn("llm.extract.sanitized", "req_id", reqID, "item", i, "dropped", dropped)
		}
		if err := c.itemSchema.Validate(clean); err != nil {
			c.logger.Warn("llm.extract.item_invalid", "req_id", reqID, "item", i, "error", err)
			continue
		}
		fields, err := toFields(clean)
		if err != nil {
			c.logger.Warn("llm.extract.item_convert_failed", "req_id", reqID, "item", i, "error", err)
			continue
		}
		out = append(out, fields)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", reqID,
		"file", filepath.Base(path),
		"items", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ExtractDocValue implements llm.DocumentExtractor for supporting documents.
// The reply is free text scanned for its first numeric token; a reply with no
// recoverable number is not an error, just an unknown value.
func (c *Client) ExtractDocValue(ctx context.Context, path string) (*float64, error) {
	reqID := requestID(ctx)
	ctx = common.WithRequestID(ctx, reqID)
	start := time.Now()

	c.logger.Info("llm.docvalue.start",
		"req_id", reqID,
		"model", c.cfg.Model,
		"file", filepath.Base(path),
	)

	dataURL, err := c.imageForDocument(ctx, path)
	if err != nil {
		c.logger.Error("llm.docvalue.prepare_failed",
			"req_id", reqID, "file", filepath.Base(path), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("prepare document image: %w", err)
	}

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildDocValuePrompt()},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": "Return only the pre-tax total of this document."},
				{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
			}},
		},
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		c.logger.Error("llm.docvalue.http_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	v, ok := llm.FirstNumericValue(content)
	if !ok {
		c.logger.Warn("llm.docvalue.no_numeric",
			"req_id", reqID, "file", filepath.Base(path), "content", truncate(content, 200),
		)
		return nil, nil
	}

	c.logger.Info("llm.docvalue.ok",
		"req_id", reqID,
		"file", filepath.Base(path),
		"value", v,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &v, nil
}

func (c *Client) complete(ctx context.Context, body map[string]any) (string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, _, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.logger)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func toFields(clean map[string]any) (llm.LineItemFields, error) {
	b, err := json.Marshal(clean)
	if err != nil {
		return llm.LineItemFields{}, fmt.Errorf("marshal item: %w", err)
	}
	var f llm.LineItemFields
	if err := json.Unmarshal(b, &f); err != nil {
		return llm.LineItemFields{}, fmt.Errorf("unmarshal item: %w", err)
	}
	return f, nil
}

func requestID(ctx context.Context) string {
	if id := common.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
