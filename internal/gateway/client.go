package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

const apiPrefix = "/api/v1"

// Client talks to the billed HTTP API. The bearer token is read from the
// session on every request.
type Client struct {
	baseURL string
	client  *http.Client
	session *session.Context
}

func NewClient(baseURL string, timeout time.Duration, sess *session.Context) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		session: sess,
	}
}

// Bills returns the handle for the "bills" resource.
func (c *Client) Bills() *Resource {
	return c.Resource("bills")
}

// Resource returns a handle scoped to the named collection.
func (c *Client) Resource(name string) *Resource {
	return &Resource{client: c, path: apiPrefix + "/" + name}
}

type LoginResult struct {
	JWT  string       `json:"jwt"`
	User session.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	var out LoginResult
	if err := c.do(ctx, "login", http.MethodPost, apiPrefix+"/auth/login", bytes.NewReader(body), "application/json", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Resource implements Gateway over one REST collection.
type Resource struct {
	client *Client
	path   string
}

var _ Gateway = (*Resource)(nil)

func (r *Resource) List(ctx context.Context) ([]bill.Bill, error) {
	var out []bill.Bill
	if err := r.client.do(ctx, "list", http.MethodGet, r.path, nil, "", nil, &out); err != nil {
		return nil, err
	}

	if out == nil {
		out = []bill.Bill{}
	}

	return out, nil
}

func (r *Resource) Get(ctx context.Context, id string) (*bill.Bill, error) {
	var out bill.Bill
	if err := r.client.do(ctx, "get", http.MethodGet, r.itemPath(id), nil, "", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *Resource) Create(ctx context.Context, payload CreatePayload) (*CreateResult, error) {
	body, contentType, err := multipartBody(payload)
	if err != nil {
		return nil, &RemoteError{Op: "create", Err: err}
	}

	var out CreateResult
	if err := r.client.do(ctx, "create", http.MethodPost, r.path, body, contentType, payload.Headers, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *Resource) Update(ctx context.Context, payload UpdatePayload) (*bill.Bill, error) {
	data, err := json.Marshal(payload.Bill)
	if err != nil {
		return nil, &RemoteError{Op: "update", Err: fmt.Errorf("encoding bill: %w", err)}
	}

	var out bill.Bill
	if err := r.client.do(ctx, "update", http.MethodPatch, r.itemPath(payload.Selector), bytes.NewReader(data), "application/json", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *Resource) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartBody(payload CreatePayload) (io.Reader, string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	if err := w.WriteField("email", payload.Email); err != nil {
		return nil, "", fmt.Errorf("writing email field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(payload.File.Name)))

	contentType := payload.File.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(payload.File.Content); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func (c *Client) do(
	ctx context.Context,
	op, method, path string,
	body io.Reader,
	contentType string,
	headers map[string]string,
	out any,
) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.session != nil {
		token, err := c.session.Token(ctx)
		if err != nil {
			return &RemoteError{Op: op, Err: err}
		}

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: statusError(resp.StatusCode, msg)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

// statusError keeps the server message and maps well-known statuses onto the
// bill sentinels so callers can use errors.Is.
func statusError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(code)
	}

	var sentinel error

	switch code {
	case http.StatusNotFound:
		sentinel = bill.ErrNotFound
	case http.StatusForbidden:
		sentinel = bill.ErrForbidden
	case http.StatusConflict:
		sentinel = bill.ErrInvalidTransition
	}

	if sentinel == nil {
		return errors.New(msg)
	}

	return fmt.Errorf("%w: %s", sentinel, msg)
}
