package wallclient

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
	"sync"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the REST surface
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type User struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Mail      string     `json:"mail"`
	Avatar    string     `json:"avatar,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type Comment struct {
	CommentedBy uint   `json:"commentedBy"`
	Text        string `json:"text"`
	Date        string `json:"date"`
	Hour        string `json:"hour"`
}

type Message struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedBy uint      `json:"createdBy"`
	Date      string    `json:"date"`
	Hour      string    `json:"hour"`
	Likes     int       `json:"likes"`
	LikedBy   []uint    `json:"likedBy"`
	Hashtags  []string  `json:"hashtags"`
	Comments  []Comment `json:"comments"`
	Shared    string    `json:"shared,omitempty"`
}

type MessagePage struct {
	Messages []Message `json:"messages"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// MessageQuery selects one page of the wall. Zero values mean server defaults.
type MessageQuery struct {
	Page          int
	Limit         int
	SortBy        string
	FilterOwner   *bool
	FilterHashtag string
}

func (q MessageQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.FilterOwner != nil {
		v.Set("filterOwner", strconv.FormatBool(*q.FilterOwner))
	}
	if q.FilterHashtag != "" {
		v.Set("filterHashtag", q.FilterHashtag)
	}
	return v
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// APIClient talks to the REST surface under /api/v1
type APIClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a session token. The token is kept for later calls.
func (c *APIClient) Login(ctx context.Context, mail, password string) (*LoginResult, error) {
	body := map[string]string{"username": mail, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

func (c *APIClient) ListMessages(ctx context.Context, q MessageQuery) (*MessagePage, error) {
	path := "/messages"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var page MessagePage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *APIClient) LikeMessage(ctx context.Context, messageID string) (*Message, error) {
	var msg Message
	if err := c.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/like", nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *APIClient) CommentMessage(ctx context.Context, messageID, text string) (*Comment, error) {
	var comment Comment
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/comment", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ShareMessage reposts messageID. An empty body lets the server pick its default text.
func (c *APIClient) ShareMessage(ctx context.Context, messageID, body string) (*Message, error) {
	var msg Message
	var payload any
	if body != "" {
		payload = map[string]string{"body": body}
	}
	if err := c.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/share", payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *APIClient) ConnectedUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/connected-users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
