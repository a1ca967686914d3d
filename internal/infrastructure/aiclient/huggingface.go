package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/adhd-helper/internal/domain/ai"
)

// maxSentimentRunes bounds the text sent to the model.
const maxSentimentRunes = 512

// HuggingFace calls the hosted inference API of a star-rating sentiment model.
type HuggingFace struct {
	URL    string
	APIKey string
	HTTP   *http.Client
	now    func() time.Time
}

func NewHuggingFace(url, apiKey string) *HuggingFace {
	return &HuggingFace{
		URL:    url,
		APIKey: apiKey,
		HTTP:   &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (h *HuggingFace) Analyze(ctx context.Context, text string) (ai.Sentiment, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" || h == nil || h.URL == "" {
		return ai.Sentiment{}, false, nil
	}
	if r := []rune(text); len(r) > maxSentimentRunes {
		text = string(r[:maxSentimentRunes])
	}

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return ai.Sentiment{}, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return ai.Sentiment{}, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}

	res, err := h.HTTP.Do(req)
	if err != nil {
		return ai.Sentiment{}, false, fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return ai.Sentiment{}, false, ai.ErrInvalidAPIKey
	case res.StatusCode == http.StatusTooManyRequests:
		return ai.Sentiment{}, false, ai.ErrRateLimited
	case res.StatusCode >= 300:
		return ai.Sentiment{}, false, fmt.Errorf("%w: status %d", ai.ErrUnavailable, res.StatusCode)
	}

	// The API answers [[{label,score},...]] for a single input.
	var parsed [][]hfLabel
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return ai.Sentiment{}, false, fmt.Errorf("%w: decode: %v", ai.ErrUnavailable, err)
	}
	if len(parsed) == 0 || len(parsed[0]) == 0 {
		return ai.Sentiment{}, false, nil
	}
	best := parsed[0][0]
	for _, l := range parsed[0][1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	stars, err := strconv.Atoi(strings.Fields(best.Label + " 0")[0])
	if err != nil || stars < 1 || stars > 5 {
		return ai.Sentiment{}, false, fmt.Errorf("%w: unexpected label %q", ai.ErrUnavailable, best.Label)
	}
	return ai.Sentiment{
		Score:      stars,
		Confidence: best.Score,
		Inference:  ai.InferenceForStars(stars),
		AnalyzedAt: h.now().UTC(),
	}, true, nil
}

var _ ai.SentimentAnalyzer = (*HuggingFace)(nil)
