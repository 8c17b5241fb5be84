package news

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/forekast/questionfeed/pkg/types"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Client is the HTTP client for the content backend (articles and topic
// clusters). Everything it returns is purely additive context attached
// to a question; this layer never mutates content.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds content backend client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a new content backend client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var reader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &types.APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if respBody == nil {
		return nil
	}

	err = json.Unmarshal(body, respBody)
	if err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// ArticlesForQuestion fetches the articles linked to a question.
func (c *Client) ArticlesForQuestion(ctx context.Context, questionID string) ([]types.Article, error) {
	var articles []types.Article
	err := c.do(ctx, http.MethodGet, "/articles-for-question/"+url.PathEscape(questionID), nil, &articles)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched-articles",
		zap.String("question-id", questionID),
		zap.Int("count", len(articles)))

	return articles, nil
}

// GetArticle fetches a single article by id.
func (c *Client) GetArticle(ctx context.Context, articleID string) (*types.Article, error) {
	var article types.Article
	err := c.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(articleID), nil, &article)
	if err != nil {
		return nil, err
	}

	return &article, nil
}

type clusterRequest struct {
	QuestionID string `json:"question_id"`
}

type clusterResponse struct {
	Clusters []types.Cluster `json:"clusters"`
}

// ClustersForQuestion fetches topic clusters grouping the articles
// related to a question.
func (c *Client) ClustersForQuestion(ctx context.Context, questionID string) ([]types.Cluster, error) {
	var resp clusterResponse
	err := c.do(ctx, http.MethodPost, "/get_clusters_for_question", clusterRequest{QuestionID: questionID}, &resp)
	if err != nil {
		return nil, err
	}

	return resp.Clusters, nil
}
