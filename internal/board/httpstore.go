package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPStore is a Store speaking the ticket service's REST API.
type HTTPStore struct {
	client  *http.Client
	baseURL string
	token   string
}

// HTTPStoreOption customizes an HTTPStore.
type HTTPStoreOption func(*HTTPStore)

// WithHTTPClient overrides the default tuned client.
func WithHTTPClient(client *http.Client) HTTPStoreOption {
	return func(s *HTTPStore) { s.client = client }
}

// NewHTTPStore creates a Store backed by the REST API at baseURL,
// authenticating with the given bearer token.
func NewHTTPStore(baseURL, token string, opts ...HTTPStoreOption) *HTTPStore {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	s := &HTTPStore{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPStore) List(ctx context.Context, filter Filter) ([]Ticket, error) {
	url := fmt.Sprintf("%s/projects/%s/tickets", s.baseURL, filter.ProjectID)

	var tickets []Ticket
	if err := s.do(ctx, http.MethodGet, url, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *HTTPStore) Insert(ctx context.Context, ticket Ticket) (*Ticket, error) {
	url := fmt.Sprintf("%s/projects/%s/tickets", s.baseURL, ticket.ProjectID)

	var created Ticket
	if err := s.do(ctx, http.MethodPost, url, ticket, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *HTTPStore) Update(ctx context.Context, ticket Ticket) (*Ticket, error) {
	url := fmt.Sprintf("%s/tickets/%s", s.baseURL, ticket.ID)

	var updated Ticket
	if err := s.do(ctx, http.MethodPatch, url, ticket, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *HTTPStore) Delete(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/tickets/%s", s.baseURL, id)
	return s.do(ctx, http.MethodDelete, url, nil, nil)
}

func (s *HTTPStore) Get(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	url := fmt.Sprintf("%s/tickets/%s", s.baseURL, id)

	var t Ticket
	if err := s.do(ctx, http.MethodGet, url, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *HTTPStore) Comments(ctx context.Context, ticketID uuid.UUID) ([]Comment, error) {
	url := fmt.Sprintf("%s/tickets/%s/comments", s.baseURL, ticketID)

	var comments []Comment
	if err := s.do(ctx, http.MethodGet, url, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *HTTPStore) AddComment(ctx context.Context, ticketID uuid.UUID, body string) (*Comment, error) {
	url := fmt.Sprintf("%s/tickets/%s/comments", s.baseURL, ticketID)

	req := map[string]string{"body": body}
	var created Comment
	if err := s.do(ctx, http.MethodPost, url, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *HTTPStore) Profiles(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error) {
	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}
	url := fmt.Sprintf("%s/profiles?ids=%s", s.baseURL, strings.Join(ids, ","))

	var profiles []Profile
	if err := s.do(ctx, http.MethodGet, url, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// do issues a single request. It never retries; every error surfaces as
// a Failure with a message.
func (s *HTTPStore) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewFailure("encode request: " + err.Error())
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return NewFailure("build request: " + err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return NewFailure(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewFailure(readErrorMessage(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return NewFailure("decode response: " + err.Error())
		}
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}

var (
	_ Store       = (*HTTPStore)(nil)
	_ DetailStore = (*HTTPStore)(nil)
)
