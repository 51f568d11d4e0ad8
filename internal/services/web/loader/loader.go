// Package loader fetches the CSV item lists that feed the blacklist
// multi-selects.
//
// Loads never fail the page: transport errors, non-success responses, and
// malformed CSV all degrade to an empty list and a log line.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultNameColumn holds the item display name.
	DefaultNameColumn = "Item"
	// DefaultTagColumn holds the short item category.
	DefaultTagColumn = "Type"
	// DefaultTimeout bounds one list fetch when no client is supplied.
	DefaultTimeout = 10 * time.Second
)

// Item is one list row.
type Item struct {
	Name string
	Tag  string
}

// Options configures a Loader.
type Options struct {
	// Client defaults to an http.Client with DefaultTimeout.
	Client *http.Client
	// NameColumn defaults to DefaultNameColumn.
	NameColumn string
	// TagColumn defaults to DefaultTagColumn. The column is optional in the data.
	TagColumn string
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Loader fetches and parses item lists.
type Loader struct {
	client     *http.Client
	nameColumn string
	tagColumn  string
	policy     *bluemonday.Policy
	logger     *log.Logger
	tracer     trace.Tracer
}

// New builds a Loader.
func New(opts Options) *Loader {
	l := &Loader{
		client:     opts.Client,
		nameColumn: strings.TrimSpace(opts.NameColumn),
		tagColumn:  strings.TrimSpace(opts.TagColumn),
		policy:     bluemonday.StrictPolicy(),
		logger:     opts.Logger,
		tracer:     otel.Tracer("github.com/gdresist/optimizer/internal/services/web/loader"),
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: DefaultTimeout}
	}
	if l.nameColumn == "" {
		l.nameColumn = DefaultNameColumn
	}
	if l.tagColumn == "" {
		l.tagColumn = DefaultTagColumn
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// Load fetches url and returns its items, or an empty list on any failure.
func (l *Loader) Load(ctx context.Context, url string) []Item {
	items, err := l.Fetch(ctx, url)
	if err != nil {
		l.logger.Printf("load list failed url=%s kind=%s err=%v", url, apperrors.KindOf(err), err)
		return []Item{}
	}
	return items
}

// LoadAll loads every url concurrently and waits for all of them. Results are
// index-aligned with urls.
func (l *Loader) LoadAll(ctx context.Context, urls ...string) [][]Item {
	results := make([][]Item, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = l.Load(ctx, url)
		}()
	}
	wg.Wait()
	return results
}

// Fetch is Load with the failure surfaced as a typed error.
func (l *Loader) Fetch(ctx context.Context, url string) (items []Item, err error) {
	ctx, span := l.tracer.Start(ctx, "loader.Fetch", trace.WithAttributes(attribute.String("list.url", url)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.KindOf(err)))
		} else {
			span.SetAttributes(attribute.Int("list.items", len(items)))
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetworkFailure, "build request", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetworkFailure, "fetch list", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperrors.E(apperrors.KindNetworkFailure, fmt.Sprintf("fetch list: status %d", resp.StatusCode))
	}

	items, err = Parse(resp.Body, l.nameColumn, l.tagColumn)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Name = l.sanitize(items[i].Name)
		items[i].Tag = l.sanitize(items[i].Tag)
	}
	kept := items[:0]
	for _, item := range items {
		if item.Name != "" {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// Parse reads a CSV document with a header row. Rows without a name are
// dropped; columns other than name and tag are ignored.
func Parse(r io.Reader, nameColumn, tagColumn string) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.E(apperrors.KindParseFailure, "parse list: missing header row")
		}
		return nil, apperrors.Wrap(apperrors.KindParseFailure, "parse list header", err)
	}
	nameIdx, tagIdx := -1, -1
	for i, column := range header {
		column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
		switch column {
		case nameColumn:
			if nameIdx < 0 {
				nameIdx = i
			}
		case tagColumn:
			if tagIdx < 0 {
				tagIdx = i
			}
		}
	}
	if nameIdx < 0 {
		return nil, apperrors.E(apperrors.KindParseFailure, fmt.Sprintf("parse list: no %q column", nameColumn))
	}

	items := []Item{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindParseFailure, "parse list row", err)
		}
		if nameIdx >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}
		item := Item{Name: name}
		if tagIdx >= 0 && tagIdx < len(record) {
			item.Tag = strings.TrimSpace(record[tagIdx])
		}
		items = append(items, item)
	}
	return items, nil
}

// sanitize strips markup from CSV-sourced text and returns plain text.
func (l *Loader) sanitize(value string) string {
	return strings.TrimSpace(html.UnescapeString(l.policy.Sanitize(value)))
}
