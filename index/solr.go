// Package index resolves artifact identifiers against the Solr metadata
// index. The index is a pure read dependency: this package issues select
// queries and never mutates documents.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultCore    = "files"
	defaultTimeout = 30 * time.Second

	// Solr field names for the artifact location and naming metadata.
	fieldFileLocation = "FileLocation"
	fieldFileName     = "FileName"
	fieldName         = "name"
)

// ClientConfig holds configuration for the Solr client.
type ClientConfig struct {
	BaseURL string        // e.g. http://localhost:8983/solr
	Core    string        // defaults to "files"
	Timeout time.Duration // defaults to 30s
}

// Client is a minimal typed client for the Solr JSON select API.
type Client struct {
	baseURL    string
	core       string
	httpClient *http.Client
}

// NewClient creates a Solr client for the given base URL and core.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("solr base URL is required")
	}
	core := cfg.Core
	if core == "" {
		core = defaultCore
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		core:       core,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// QueryRequest describes a single select query.
type QueryRequest struct {
	Query         string   // main query, e.g. id:"case-42"
	FilterQueries []string // additional fq clauses (access control)
	Fields        []string // fl projection; empty means all fields
	Rows          int      // maximum documents to return
}

// Doc is a single matching document with the projected fields.
type Doc struct {
	FileLocation string   `json:"FileLocation"`
	FileName     string   `json:"FileName"`
	Name         []string `json:"name"`
}

// QueryResult holds the documents matching a select query.
type QueryResult struct {
	NumFound int
	Docs     []Doc
}

type solrResponse struct {
	Response struct {
		NumFound int   `json:"numFound"`
		Docs     []Doc `json:"docs"`
	} `json:"response"`
}

// Query executes a select query against the configured core. A transport
// failure or non-200 response is returned as an error, never as an empty
// result.
func (c *Client) Query(ctx context.Context, q QueryRequest) (*QueryResult, error) {
	params := url.Values{}
	params.Set("q", q.Query)
	for _, fq := range q.FilterQueries {
		params.Add("fq", fq)
	}
	if len(q.Fields) > 0 {
		params.Set("fl", strings.Join(q.Fields, ","))
	}
	if q.Rows > 0 {
		params.Set("rows", strconv.Itoa(q.Rows))
	}
	params.Set("wt", "json")

	reqURL := c.baseURL + "/" + c.core + "/select?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build solr request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("solr returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr solrResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode solr response: %w", err)
	}

	return &QueryResult{
		NumFound: sr.Response.NumFound,
		Docs:     sr.Response.Docs,
	}, nil
}

// Ping checks that the configured core is reachable and healthy.
func (c *Client) Ping(ctx context.Context) error {
	reqURL := c.baseURL + "/" + c.core + "/admin/ping?wt=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build solr ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("solr ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("solr ping returned status %d", resp.StatusCode)
	}
	return nil
}
