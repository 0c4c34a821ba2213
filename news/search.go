package news

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"inquiry-relay/models"
)

// SearchClient queries Google Programmable Search for headlines.
type SearchClient struct {
	apiKey string
	cx     string
	opts   []option.ClientOption
}

func NewSearchClient(apiKey, cx string, opts ...option.ClientOption) *SearchClient {
	return &SearchClient{apiKey: apiKey, cx: cx, opts: opts}
}

func (c *SearchClient) Search(ctx context.Context, query string, n int64) ([]models.Headline, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	resp, err := svc.Cse.List().Cx(c.cx).Q(query).Num(n).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news from search: %w", err)
	}

	headlines := make([]models.Headline, 0, len(resp.Items))
	for _, item := range resp.Items {
		headlines = append(headlines, models.Headline{Title: item.Title, Snippet: item.Snippet})
	}
	return headlines, nil
}
