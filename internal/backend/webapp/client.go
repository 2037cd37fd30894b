// Package webapp implements service.Service against a spreadsheet-backed
// Apps Script web app.
//
// The web app exposes one URL. Reads are GET ?action=getTodos; every
// mutation is a POST whose JSON body carries an "action" discriminator.
// Responses are read as text and must parse as a JSON envelope with a
// "success" flag.
package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"todotrack/internal/service"
)

// Client implements service.Service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a client for the given endpoint. A nil httpClient uses a
// client with no timeout of its own.
func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// FetchTasks implements service.Service.
func (c *Client) FetchTasks(ctx context.Context) ([]service.Task, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &service.SyncError{Kind: service.KindTransport, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("action", string(ActionGetTodos))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &service.SyncError{Kind: service.KindTransport, Err: err}
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !env.Success || !isArray(env.Todos) {
		msg := env.Message
		if msg == "" {
			msg = "Invalid data format from API."
		}
		return nil, &service.SyncError{Kind: service.KindApplication, Message: msg}
	}

	var wire []wireTask
	if err := json.Unmarshal(env.Todos, &wire); err != nil {
		return nil, &service.SyncError{Kind: service.KindProtocol, Err: fmt.Errorf("decode todos: %w", err)}
	}

	tasks := make([]service.Task, len(wire))
	for i, w := range wire {
		tasks[i] = w.toTask()
	}
	return tasks, nil
}

// AddTask implements service.Service. A success envelope without an id is
// treated as a failure.
func (c *Client) AddTask(ctx context.Context, task service.NewTask) (string, error) {
	env, err := c.post(ctx, AddTodo{Task: task})
	if err != nil {
		return "", err
	}
	if env.ID == "" {
		return "", &service.SyncError{Kind: service.KindApplication, Message: env.Message}
	}
	return string(env.ID), nil
}

// UpdateStatus implements service.Service.
func (c *Client) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	_, err := c.post(ctx, UpdateTodoStatus{ID: id, Status: status})
	return err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.post(ctx, DeleteTodo{ID: id})
	return err
}

// SendReminder implements service.Service.
func (c *Client) SendReminder(ctx context.Context, kind service.ReminderType) (string, error) {
	env, err := c.post(ctx, SendEmailReminder{Type: kind})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// post sends a mutation and returns a successful envelope.
func (c *Client) post(ctx context.Context, r Request) (envelope, error) {
	body, err := Encode(r)
	if err != nil {
		return envelope{}, &service.SyncError{Kind: service.KindTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return envelope{}, &service.SyncError{Kind: service.KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req)
	if err != nil {
		return envelope{}, err
	}
	if !env.Success {
		return envelope{}, &service.SyncError{Kind: service.KindApplication, Message: env.Message}
	}
	return env, nil
}

// do executes req and decodes the envelope. It does not look at Success.
func (c *Client) do(req *http.Request) (envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, &service.SyncError{Kind: service.KindTransport, Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, &service.SyncError{Kind: service.KindTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	parseErr := json.Unmarshal(text, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &service.SyncError{
			Kind: service.KindTransport,
			Err:  fmt.Errorf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
		if parseErr == nil {
			se.Message = env.Message
		}
		return envelope{}, se
	}

	if parseErr != nil {
		return envelope{}, &service.SyncError{Kind: service.KindProtocol, Err: fmt.Errorf("non-JSON response: %w", parseErr)}
	}
	return env, nil
}
