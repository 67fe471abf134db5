// Package directory talks to the external employee and company directory.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CallObserver receives the outcome of every directory call.
type CallObserver interface {
	ObserveDirectoryCall(op string, err error, elapsed time.Duration)
}

// Client wraps the directory REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	observer   CallObserver
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithObserver attaches a call observer, typically metrics.
func WithObserver(o CallObserver) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient constructs a directory client for baseURL.
func NewClient(baseURL, token string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"meta,omitempty"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Ping checks the directory is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/health", nil, nil)
	return err
}

// ListCompanies returns every company known to the directory.
func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if _, err := c.do(ctx, "list_companies", http.MethodGet, "/companies", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// ListEmployees returns one page of employees matching filter.
func (c *Client) ListEmployees(ctx context.Context, filter ListFilter) (EmployeePage, error) {
	q := url.Values{}
	if filter.CompanyID != nil {
		q.Set("company_id", strconv.FormatInt(*filter.CompanyID, 10))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q.Set("search", s)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/employees"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var employees []Employee
	env, err := c.do(ctx, "list_employees", http.MethodGet, path, nil, &employees)
	if err != nil {
		return EmployeePage{}, err
	}
	page := EmployeePage{Employees: employees, Total: len(employees), Page: filter.Page, Limit: filter.Limit}
	if env.Meta != nil {
		page.Total = env.Meta.Total
		if env.Meta.Page > 0 {
			page.Page = env.Meta.Page
		}
		if env.Meta.Limit > 0 {
			page.Limit = env.Meta.Limit
		}
	}
	return page, nil
}

// GetEmployee loads a single employee.
func (c *Client) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var employee Employee
	if _, err := c.do(ctx, "get_employee", http.MethodGet, "/employees/"+strconv.FormatInt(id, 10), nil, &employee); err != nil {
		return Employee{}, err
	}
	return employee, nil
}

// CreateEmployee registers a new employee.
func (c *Client) CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	var employee Employee
	if _, err := c.do(ctx, "create_employee", http.MethodPost, "/employees", input, &employee); err != nil {
		return Employee{}, err
	}
	return employee, nil
}

// UpdateEmployee replaces the editable fields of an employee.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, input EmployeeInput) (Employee, error) {
	var employee Employee
	if _, err := c.do(ctx, "update_employee", http.MethodPut, "/employees/"+strconv.FormatInt(id, 10), input, &employee); err != nil {
		return Employee{}, err
	}
	return employee, nil
}

// NextEmployeeCode asks the directory for the next free employee code in a company.
func (c *Client) NextEmployeeCode(ctx context.Context, companyID int64) (string, error) {
	var out struct {
		Code string `json:"code"`
	}
	path := "/employees/next-code?company_id=" + strconv.FormatInt(companyID, 10)
	if _, err := c.do(ctx, "next_employee_code", http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest any) (env envelope, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveDirectoryCall(op, err, time.Since(start))
		}
	}()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return envelope{}, fmt.Errorf("directory %s: encode: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return envelope{}, fmt.Errorf("directory %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return envelope{}, err
		}
		return envelope{}, fmt.Errorf("directory %s: %w: %v", op, ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return envelope{}, fmt.Errorf("directory %s: read body: %w", op, err)
	}

	if resp.StatusCode >= 400 {
		return envelope{}, decodeError(resp.StatusCode, payload)
	}
	if dest == nil || len(bytes.TrimSpace(payload)) == 0 {
		return envelope{}, nil
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, fmt.Errorf("directory %s: decode: %w", op, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return env, nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return envelope{}, fmt.Errorf("directory %s: decode data: %w", op, err)
	}
	return env, nil
}

func decodeError(status int, payload []byte) error {
	apiErr := &APIError{Status: status}
	var body errorPayload
	if err := json.Unmarshal(payload, &body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
			apiErr.Code = ""
		}
	} else if text := strings.TrimSpace(string(payload)); text != "" && len(text) < 512 {
		apiErr.Message = text
	}
	return apiErr
}
