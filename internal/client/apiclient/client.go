// Package apiclient talks to the catalog portal backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"catalog_portal/internal/domain/model"
)

// ErrRemote matches every error reported by the server itself.
var ErrRemote = errors.New("server reported an error")

// RemoteError carries the server's public message.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string        { return e.Message }
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, http: hc}
}

const userFields = `id username createDate name lastName email userType`

const loginQuery = `query Login($username: String!, $password: String!) {
  login(username: $username, password: $password) { token user { ` + userFields + ` } }
}`

const updateUserMutation = `mutation UpdateUser($id: ID!, $username: String, $name: String, $lastName: String, $email: String, $userType: String, $password: String) {
  updateUser(id: $id, username: $username, name: $name, lastName: $lastName, email: $email, userType: $userType, password: $password) { ` + userFields + ` }
}`

type userPayload struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	UserType   string `json:"userType"`
	CreateDate string `json:"createDate"`
}

func (p userPayload) snapshot() (model.UserSnapshot, error) {
	s := model.UserSnapshot{
		ID:       p.ID,
		Username: p.Username,
		Name:     p.Name,
		LastName: p.LastName,
		Email:    p.Email,
		UserType: p.UserType,
	}
	if p.CreateDate != "" {
		t, err := time.Parse(time.RFC3339Nano, p.CreateDate)
		if err != nil {
			return model.UserSnapshot{}, fmt.Errorf("parse createDate: %w", err)
		}
		s.CreateDate = t
	}
	return s, nil
}

// Login exchanges credentials for a token and the user it was issued for.
func (c *Client) Login(ctx context.Context, username, password string) (string, model.UserSnapshot, error) {
	var data struct {
		Login *struct {
			Token string      `json:"token"`
			User  userPayload `json:"user"`
		} `json:"login"`
	}
	vars := map[string]interface{}{"username": username, "password": password}
	if err := c.graphql(ctx, loginQuery, vars, &data); err != nil {
		return "", model.UserSnapshot{}, err
	}
	if data.Login == nil {
		return "", model.UserSnapshot{}, fmt.Errorf("login: empty response")
	}
	user, err := data.Login.User.snapshot()
	if err != nil {
		return "", model.UserSnapshot{}, err
	}
	return data.Login.Token, user, nil
}

// UpdateUser sends only the fields present in patch.
func (c *Client) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.UserSnapshot, error) {
	vars := map[string]interface{}{"id": id}
	for name, field := range map[string]model.Optional[string]{
		"username": patch.Username,
		"name":     patch.Name,
		"lastName": patch.LastName,
		"email":    patch.Email,
		"userType": patch.UserType,
		"password": patch.Password,
	} {
		if field.Set {
			vars[name] = field.Value
		}
	}

	var data struct {
		UpdateUser *userPayload `json:"updateUser"`
	}
	if err := c.graphql(ctx, updateUserMutation, vars, &data); err != nil {
		return model.UserSnapshot{}, err
	}
	if data.UpdateUser == nil {
		return model.UserSnapshot{}, fmt.Errorf("updateUser: empty response")
	}
	return data.UpdateUser.snapshot()
}

// Products returns the catalog JSON exactly as the server sent it.
func (c *Client) Products(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/products", "")
}

func (c *Client) Product(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, "/api/products/"+url.PathEscape(id), "")
}

// Me fetches the stored record behind token, which may be newer than the token's snapshot.
func (c *Client) Me(ctx context.Context, token string) (model.UserSnapshot, error) {
	body, err := c.get(ctx, "/api/v1/me", token)
	if err != nil {
		return model.UserSnapshot{}, err
	}
	var u model.UserSnapshot
	if err := json.Unmarshal(body, &u); err != nil {
		return model.UserSnapshot{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) graphql(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	var resp graphqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if status >= 300 {
			return &RemoteError{Status: status, Message: http.StatusText(status)}
		}
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return &RemoteError{Status: status, Message: resp.Errors[0].Message}
	}
	if status >= 300 {
		return &RemoteError{Status: status, Message: http.StatusText(status)}
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		var er struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(status)
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return nil, &RemoteError{Status: status, Message: msg}
	}
	return body, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
