// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/kumpul/models"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the kumpul API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for baseURL. token is sent as the bearer
// credential when non-empty. A nil httpClient gets a 10s timeout default.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Tallies fetches both polls at once.
func (c *Client) Tallies(ctx context.Context) (models.AllVotesResponse, error) {
	var resp models.AllVotesResponse
	err := c.do(ctx, http.MethodGet, "/votes", nil, &resp)
	return resp, err
}

func (c *Client) PollTally(ctx context.Context, pt models.PollType) (models.Tally, error) {
	var resp models.PollVotesResponse
	if err := c.do(ctx, http.MethodGet, "/votes/"+url.PathEscape(string(pt)), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Votes, nil
}

// MyVote returns the user's current option and whether one exists.
func (c *Client) MyVote(ctx context.Context, pt models.PollType, userID string) (string, bool, error) {
	var resp models.MyVoteResponse
	path := "/my-vote/" + url.PathEscape(string(pt)) + "/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", false, err
	}
	if !resp.HasVoted || resp.Option == nil {
		return "", false, nil
	}
	return *resp.Option, true, nil
}

// Cast creates or replaces the user's vote and returns the fresh tally.
func (c *Client) Cast(ctx context.Context, pt models.PollType, userID, option string) (models.Tally, error) {
	var resp models.VoteResponse
	body := models.CastVoteRequest{AnonymousUserID: userID, Option: option}
	if err := c.do(ctx, http.MethodPost, "/vote/"+url.PathEscape(string(pt)), body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "vote not accepted"}
	}
	return resp.Votes, nil
}

// Cancel removes the user's vote and returns the fresh tally.
func (c *Client) Cancel(ctx context.Context, pt models.PollType, userID string) (models.Tally, error) {
	var resp models.VoteResponse
	path := "/vote/" + url.PathEscape(string(pt)) + "/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "cancel not accepted"}
	}
	return resp.Votes, nil
}
