package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// Actor is a person as the directory sees them: role plus team membership.
type Actor struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
	TeamID string `json:"team_id,omitempty"`
}

// Team carries the lead identifier used to authorize weight-config writes.
type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	LeadID string `json:"lead_id,omitempty"`
}

// Client talks to the platform's people directory. Lookups return nil (not an
// error) for unknown ids.
type Client interface {
	GetActor(ctx context.Context, actorID string) (*Actor, error)
	GetTeam(ctx context.Context, teamID string) (*Team, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("roster %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) GetActor(ctx context.Context, actorID string) (*Actor, error) {
	data, err := c.doReq(ctx, "GET", "/api/v1/people/"+actorID)
	if err != nil || data == nil {
		return nil, err
	}
	var actor Actor
	if err := json.Unmarshal(data, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

func (c *HTTPClient) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	data, err := c.doReq(ctx, "GET", "/api/v1/teams/"+teamID)
	if err != nil || data == nil {
		return nil, err
	}
	var team Team
	if err := json.Unmarshal(data, &team); err != nil {
		return nil, err
	}
	return &team, nil
}
