// Package remote is the HTTP client for the authoritative expense-tracker
// API. It knows nothing about caching: every failure, transport or
// status-level, is returned to the sync store, which decides how to
// degrade.
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

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

// StatusError is a non-success response from the remote API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
	backoff time.Duration
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:  logger,
		backoff: 250 * time.Millisecond,
	}
}

// do issues one JSON request with a single bounded retry on transport
// errors and 5xx responses. 4xx responses are not retried.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(c.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := &StatusError{Code: resp.StatusCode, Body: string(raw)}
			if resp.StatusCode >= 500 {
				return retry.RetryableError(statusErr)
			}
			return statusErr
		}

		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (c *Client) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	var list []ledger.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateTransaction(ctx context.Context, tx ledger.Transaction) error {
	return c.do(ctx, http.MethodPost, "/transactions", tx, nil)
}

func (c *Client) ListSavings(ctx context.Context) ([]ledger.SavingsRecord, error) {
	var list []ledger.SavingsRecord
	if err := c.do(ctx, http.MethodGet, "/savings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateSaving(ctx context.Context, rec ledger.SavingsRecord) error {
	return c.do(ctx, http.MethodPost, "/savings", rec, nil)
}

func (c *Client) UpdateSaving(ctx context.Context, id string, rec ledger.SavingsRecord) error {
	return c.do(ctx, http.MethodPut, "/savings/"+id, rec, nil)
}

func (c *Client) DeleteSaving(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/savings/"+id, nil, nil)
}

// AddDeposit records an RD payment through the optional add-month
// endpoint.
func (c *Client) AddDeposit(ctx context.Context, id string, entry ledger.DepositEntry) error {
	return c.do(ctx, http.MethodPost, "/savings/"+id+"/add-month", entry, nil)
}

func (c *Client) ListNotes(ctx context.Context) ([]ledger.Note, error) {
	var list []ledger.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateNote(ctx context.Context, note ledger.Note) (ledger.Note, error) {
	var created ledger.Note
	if err := c.do(ctx, http.MethodPost, "/notes", note, &created); err != nil {
		return ledger.Note{}, err
	}
	return created, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, note ledger.Note) (ledger.Note, error) {
	var updated ledger.Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+id, note, &updated); err != nil {
		return ledger.Note{}, err
	}
	return updated, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+id, nil, nil)
}

// Leaderboard fetches the remote leaderboard. The endpoint is optional;
// callers fall back to a derived leaderboard on any error.
func (c *Client) Leaderboard(ctx context.Context) ([]ledger.LeaderboardEntry, error) {
	var list []ledger.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/leaderboard", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
