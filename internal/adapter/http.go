// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

type httpServerAdapter struct {
	client *resty.Client
	tokens auth.TokenSource
	clock  clockwork.Clock

	retryCount int
	retryBase  time.Duration

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// cfg.BaseURL and configures the underlying HTTP client with the resolved
// base URL and request timeout. Tokens are pulled from tokens per request,
// so an externally rotated credential is picked up without restarting.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPServerAdapter(cfg config.AgentAdapter, tokens auth.TokenSource, clock clockwork.Clock, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpServerAdapter{
		client:     client,
		tokens:     tokens,
		clock:      clock,
		retryCount: cfg.RetryCount,
		retryBase:  cfg.RetryBaseDelay,
		logger:     log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchPage implements [ServerAdapter]. It GETs one page of the entity's
// endpoint with offset/limit query parameters and decodes the response
// envelope. Transient failures go through the shared retry loop.
func (h *httpServerAdapter) FetchPage(ctx context.Context, entity models.SyncEntity, offset, limit int) (models.Page, error) {
	var page models.Page

	err := h.withRetry(ctx, "fetch page "+entity.Name, func(ctx context.Context) error {
		req, err := h.authedRequest(ctx)
		if err != nil {
			return err
		}

		resp, err := req.
			SetHeader("Accept", "application/json").
			SetQueryParams(map[string]string{
				"offset": strconv.Itoa(offset),
				"limit":  strconv.Itoa(limit),
			}).
			Get(entity.Endpoint)
		if err != nil {
			return fmt.Errorf("%w: fetch %s page at offset %d: %w", ErrNetwork, entity.Name, offset, err)
		}
		if err = mapHTTPError(resp); err != nil {
			return err
		}

		page, err = h.decodePage(entity, resp.Body(), limit)
		return err
	})
	if err != nil {
		return models.Page{}, err
	}

	return page, nil
}

// FetchSummary implements [ServerAdapter]. It GETs the dashboard summary
// endpoint and decodes the envelope, retrying transient failures.
func (h *httpServerAdapter) FetchSummary(ctx context.Context) (models.DashboardSummary, error) {
	var summary models.DashboardSummary

	err := h.withRetry(ctx, "fetch summary", func(ctx context.Context) error {
		req, err := h.authedRequest(ctx)
		if err != nil {
			return err
		}

		resp, err := req.
			SetHeader("Accept", "application/json").
			Get("/api/v1/dashboard/summary")
		if err != nil {
			return fmt.Errorf("%w: fetch summary: %w", ErrNetwork, err)
		}
		if err = mapHTTPError(resp); err != nil {
			return err
		}

		var envelope models.SummaryEnvelope
		if err = json.Unmarshal(resp.Body(), &envelope); err != nil {
			return fmt.Errorf("decode summary envelope: %w", err)
		}
		if !envelope.Success {
			return fmt.Errorf("%w: server reported failure: %s", ErrServerError, envelope.Error)
		}

		summary = envelope.Data
		return nil
	})
	if err != nil {
		return models.DashboardSummary{}, err
	}

	return summary, nil
}

// Ping implements [ServerAdapter]. A completed HTTP exchange counts as
// reachable regardless of status code; only transport failures error.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	_, err := h.client.R().
		SetContext(ctx).
		Head("/api/ping")
	if err != nil {
		return fmt.Errorf("%w: ping: %w", ErrNetwork, err)
	}

	return nil
}

// withRetry runs fn up to retryCount times, sleeping base, 2*base, 4*base...
// between attempts. Non-retryable errors and context cancellation stop the
// loop immediately; after the last attempt the last error is returned.
func (h *httpServerAdapter) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= h.retryCount; attempt++ {
		if attempt > 1 {
			backoff := h.retryBase << (attempt - 2)
			h.logger.Warn().
				Str("func", "httpServerAdapter.withRetry").
				Str("op", op).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Err(lastErr).
				Msg("transient failure, retrying after backoff")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-h.clock.After(backoff):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	req := h.client.R().SetContext(ctx)

	token, err := h.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth token: %w", err)
	}
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	return req, nil
}

// decodePage unmarshals a page envelope and validates its accounting.
// An item that cannot be decoded keeps its raw payload and empty tracked
// fields; record validation downstream drops it without disturbing the
// page's item count, which pagination depends on.
func (h *httpServerAdapter) decodePage(entity models.SyncEntity, body []byte, limit int) (models.Page, error) {
	var envelope models.PageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.Page{}, fmt.Errorf("%w: decode envelope: %w", ErrMalformedPage, err)
	}
	if !envelope.Success {
		return models.Page{}, fmt.Errorf("%w: server reported failure: %s", ErrServerError, envelope.Error)
	}

	data := envelope.Data
	if data.Total < 0 || len(data.Items) > limit {
		return models.Page{}, fmt.Errorf("%w: %d items with limit %d, total %d",
			ErrMalformedPage, len(data.Items), limit, data.Total)
	}
	if data.Offset+len(data.Items) > data.Total {
		return models.Page{}, fmt.Errorf("%w: offset %d plus %d items exceeds total %d",
			ErrMalformedPage, data.Offset, len(data.Items), data.Total)
	}

	page := models.Page{
		Items:  make([]models.RemoteRecord, 0, len(data.Items)),
		Total:  data.Total,
		Offset: data.Offset,
		Limit:  data.Limit,
	}
	for i, raw := range data.Items {
		var rec models.RemoteRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			h.logger.Warn().
				Str("func", "httpServerAdapter.decodePage").
				Str("entity", entity.Name).
				Int("index", i).
				Err(err).
				Msg("undecodable item, leaving for record validation to drop")
			rec = models.RemoteRecord{}
		}
		rec.Payload = raw
		page.Items = append(page.Items, rec)
	}

	return page, nil
}
