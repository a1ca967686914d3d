package search

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// EmotionIndex keeps emotion notes searchable in Elasticsearch. Documents are
// keyed by record id and always carry user_id so queries stay per-user.
type EmotionIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewEmotionIndex(es *elasticsearch.Client, index string) *EmotionIndex {
	return &EmotionIndex{es: es, index: index}
}

func emotionDoc(e *entity.EmotionRecord) map[string]any {
	note := ""
	if e.Note != nil {
		note = *e.Note
	}
	return map[string]any{
		"id":            e.ID,
		"user_id":       e.UserID,
		"emotion_type":  e.EmotionType,
		"emotion_level": e.EmotionLevel,
		"note":          note,
		"recorded_at":   e.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func (x *EmotionIndex) Index(ctx context.Context, e *entity.EmotionRecord) error {
	return helpers.ESIndexDocument(ctx, x.es, x.index, e.ID, emotionDoc(e))
}

func (x *EmotionIndex) Delete(ctx context.Context, id string) error {
	return helpers.ESDeleteDocument(ctx, x.es, x.index, id)
}

func searchQuery(userID, q string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
				"must": []any{
					map[string]any{"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"note", "emotion_type^2"},
					}},
				},
			},
		},
		"sort": []any{"_score", map[string]any{"recorded_at": "desc"}},
	}
}

func (x *EmotionIndex) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	return helpers.ESSearch(ctx, x.es, x.index, searchQuery(userID, q, size))
}
