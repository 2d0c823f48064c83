package blogger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Label conventions on match posts. MatchLabel tags every post managed by
// this system; identity and kickoff ride along as prefixed labels.
const (
	MatchLabel     = "match"
	IdentityPrefix = "match:"
	KickoffPrefix  = "kickoff:"
)

// ErrRateLimited is returned by CreatePost when the platform answers 429.
// It is fatal for the run's create loop, not a per-item failure.
var ErrRateLimited = errors.New("rate limited by platform")

// IsRateLimited reports whether err stems from a 429 response.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Client talks to the Blogger v3 API on behalf of one blog. All mutating
// calls require Authorize to have succeeded first.
type Client struct {
	clientID     string
	clientSecret string
	refreshToken string
	blogID       string
	baseURL      string
	tokenURL     string
	accessToken  string
	httpClient   *http.Client
}

func NewClient(clientID, clientSecret, refreshToken, blogID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		blogID:       blogID,
		baseURL:      "https://www.googleapis.com/blogger/v3",
		tokenURL:     "https://oauth2.googleapis.com/token",
		httpClient:   httpClient,
	}
}

// Authorize exchanges the refresh token for a bearer access token. Failure
// here is fatal to the whole run.
func (c *Client) Authorize(ctx context.Context) error {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("refresh_token", strings.TrimSpace(c.refreshToken))
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("parse token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || token.AccessToken == "" {
		return fmt.Errorf("token exchange rejected: %d %s", resp.StatusCode, string(body))
	}

	c.accessToken = token.AccessToken
	return nil
}

// ListMatchPosts enumerates every post carrying the match label, across
// pagination, and extracts its published state. A page that fails to list is
// logged and truncates the result instead of aborting: publishing with a
// partial set risks a duplicate creation attempt, which the platform-side
// dedupe check downstream tolerates better than halting all publishing.
func (c *Client) ListMatchPosts(ctx context.Context) []PostRef {
	var refs []PostRef
	pageToken := ""

	for {
		page, err := c.listPage(ctx, pageToken)
		if err != nil {
			slog.Warn("Failed to list match posts, proceeding with partial set", "collected", len(refs), "error", err)
			return refs
		}

		for _, post := range page.Items {
			refs = append(refs, newPostRef(post))
		}

		if page.NextPageToken == "" {
			return refs
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) listPage(ctx context.Context, pageToken string) (*postList, error) {
	u, err := url.Parse(fmt.Sprintf("%s/blogs/%s/posts", c.baseURL, c.blogID))
	if err != nil {
		return nil, fmt.Errorf("build list URL: %w", err)
	}

	q := u.Query()
	q.Set("maxResults", "500")
	q.Set("fetchBodies", "false")
	q.Set("labels", MatchLabel)
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read list response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list posts: %d %s", resp.StatusCode, string(body))
	}

	var page postList
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("parse list response: %w", err)
	}

	return &page, nil
}

// CreatePost publishes a new post and returns its platform ID. A 429
// response returns ErrRateLimited; any other non-2xx is an ordinary,
// per-item error.
func (c *Client) CreatePost(ctx context.Context, title, content string, labels []string) (string, error) {
	payload, err := json.Marshal(createPostRequest{
		Title:   title,
		Content: content,
		Labels:  labels,
	})
	if err != nil {
		return "", fmt.Errorf("marshal post: %w", err)
	}

	u := fmt.Sprintf("%s/blogs/%s/posts/", c.baseURL, c.blogID)
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create post request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read create response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("create post: %w", ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("create post: %d %s", resp.StatusCode, string(body))
	}

	var created createPostResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("parse create response: %w", err)
	}

	return created.ID, nil
}

// DeletePost removes a post by ID. The platform answers 204 on success.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	u := fmt.Sprintf("%s/blogs/%s/posts/%s", c.baseURL, c.blogID, postID)
	req, err := http.NewRequestWithContext(ctx, "DELETE", u, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete post %s: %d %s", postID, resp.StatusCode, string(body))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// newPostRef extracts the identity and kickoff labels from a listed post.
// When no kickoff label exists, the post's own publish timestamp stands in
// as the kickoff surrogate for finished detection.
func newPostRef(post Post) PostRef {
	ref := PostRef{PostID: post.ID}

	for _, label := range post.Labels {
		if id, ok := strings.CutPrefix(label, IdentityPrefix); ok {
			ref.Identity = id
		}
		if raw, ok := strings.CutPrefix(label, KickoffPrefix); ok {
			if ts, err := strconv.ParseInt(raw, 10, 64); err == nil && ts > 0 {
				ref.Kickoff = ts
			}
		}
	}

	if ref.Kickoff == 0 && post.Published != "" {
		if t, err := time.Parse(time.RFC3339, post.Published); err == nil {
			ref.Kickoff = t.Unix()
		}
	}

	return ref
}
