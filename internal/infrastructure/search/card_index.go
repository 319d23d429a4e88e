package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// CardIndex mirrors public card summaries into Elasticsearch.
// A nil client turns every call into a no-op.
type CardIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logrus.FieldLogger
}

func NewCardIndex(es *elasticsearch.Client, index string, logger logrus.FieldLogger) *CardIndex {
	return &CardIndex{es: es, index: index, logger: logger}
}

func (ci *CardIndex) enabled() bool { return ci != nil && ci.es != nil && ci.index != "" }

// Index upserts the document for s.PublicID.
func (ci *CardIndex) Index(ctx context.Context, s entity.CardSummary) error {
	if !ci.enabled() {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: ci.index, DocumentID: s.PublicID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, ci.es)
	if err != nil {
		return fmt.Errorf("index card: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index card: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over name, title and bio.
func (ci *CardIndex) Search(ctx context.Context, q string, size int) ([]entity.CardSummary, error) {
	if !ci.enabled() {
		return []entity.CardSummary{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "title", "bio"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := ci.es.Search(
		ci.es.Search.WithContext(c),
		ci.es.Search.WithIndex(ci.index),
		ci.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w: %w", apperr.ErrUpstream, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// a search before the first indexed card hits a missing index
		if res.StatusCode == 404 {
			return []entity.CardSummary{}, nil
		}
		return nil, fmt.Errorf("search cards: %w: %s", apperr.ErrUpstream, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.CardSummary `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Join(apperr.ErrUpstream, err)
	}

	out := make([]entity.CardSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
