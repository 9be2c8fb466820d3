// Package github provides a connector for the GitHub REST API. It fetches
// repository data for users and serves as the reference implementation of
// the connector contract.
package github

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tributary/pkg/config"
	"github.com/ajitpratap0/tributary/pkg/connector/base"
	"github.com/ajitpratap0/tributary/pkg/connector/core"
	"github.com/ajitpratap0/tributary/pkg/errors"
)

// requiredFields are the fields every repository record must carry to be
// considered well-formed.
var requiredFields = []string{"id", "name", "full_name", "html_url"}

// Source is the GitHub connector. Invalid records are skipped and logged
// rather than aborting extraction; the validation hook decides, not the
// framework.
type Source struct {
	*base.BaseConnector

	config *config.ConnectorConfig
}

// New creates a GitHub connector. The API key, when configured, is sent as
// a token authorization header on every request.
func New(cfg *config.ConnectorConfig) (*Source, error) {
	s := &Source{config: cfg}

	bc, err := base.New("github", cfg, s.AuthHeaders())
	if err != nil {
		return nil, err
	}
	s.BaseConnector = bc

	return s, nil
}

// AuthHeaders returns GitHub's token authorization header, or an empty
// mapping when no credential is configured.
func (s *Source) AuthHeaders() map[string]string {
	if s.config == nil || !s.config.HasCredential() {
		return map[string]string{}
	}
	return map[string]string{
		"Authorization": "token " + s.config.APIKey,
	}
}

// Extract fetches the repositories of the user named in params["username"].
// The optional "per_page" and "max_pages" params switch extraction to the
// offset paginator for large accounts; without them a single request covers
// the default page.
func (s *Source) Extract(ctx context.Context, params map[string]string) ([]core.Record, error) {
	username, ok := params["username"]
	if !ok || username == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "username parameter is required")
	}

	perPage, err := optionalInt(params, "per_page")
	if err != nil {
		return nil, err
	}
	maxPages, err := optionalInt(params, "max_pages")
	if err != nil {
		return nil, err
	}
	if perPage > 0 || maxPages > 0 {
		return s.ExtractPaginated(ctx, username, perPage, maxPages)
	}

	data, err := s.Get(ctx, fmt.Sprintf("users/%s/repos", username), base.RequestOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTransport,
			fmt.Sprintf("failed to fetch repositories for %s", username))
	}

	return s.collect(base.RecordsOf(data)), nil
}

// ExtractPaginated fetches repositories through the offset paginator,
// bounded by maxPages (0 means unbounded).
func (s *Source) ExtractPaginated(ctx context.Context, username string, perPage, maxPages int) ([]core.Record, error) {
	if username == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "username is required")
	}

	it := s.PaginateOffset(fmt.Sprintf("users/%s/repos", username), base.OffsetOptions{
		Limit:    perPage,
		MaxPages: maxPages,
	})

	var repos []core.Record
	for it.Next(ctx) {
		repos = append(repos, s.collect(it.Page())...)
	}

	return repos, nil
}

// ValidateResponse reports whether a record is a repository object carrying
// the id, name, full_name, and html_url fields.
func (s *Source) ValidateResponse(v interface{}) bool {
	record, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	for _, field := range requiredFields {
		if _, ok := record[field]; !ok {
			return false
		}
	}
	return true
}

// optionalInt parses an optional positive integer parameter
func optionalInt(params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.Newf(errors.ErrorTypeConfig, "%s must be a non-negative integer, got %q", key, raw)
	}
	return n, nil
}

// collect filters a page through ValidateResponse, logging skipped records
func (s *Source) collect(page core.Page) []core.Record {
	records := make([]core.Record, 0, len(page))
	for _, item := range page {
		if !s.ValidateResponse(item) {
			s.Logger().Warn("skipping malformed repository record",
				zap.Any("record", item))
			continue
		}
		records = append(records, item.(map[string]interface{}))
	}
	return records
}
