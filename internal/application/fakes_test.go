package application

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/oksasatya/adhd-helper/internal/domain/ai"
	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

var fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type idGen struct {
	mu sync.Mutex
	n  int
}

func (g *idGen) next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return prefix + "-" + strconv.Itoa(g.n)
}

type memUsers struct {
	mu        sync.Mutex
	ids       idGen
	byID      map[string]*entity.User
	insertErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Insert(_ context.Context, u *entity.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = m.ids.next("user")
	u.CreatedAt = fixedNow
	u.UpdatedAt = fixedNow
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateSettings(_ context.Context, id string, s entity.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Settings = s
	return nil
}

func inRange(t time.Time, tr repository.TimeRange) bool {
	if tr.From != nil && t.Before(*tr.From) {
		return false
	}
	if tr.To != nil && t.After(*tr.To) {
		return false
	}
	return true
}

func page[T any](items []T, p repository.Page) []T {
	skip := p.Skip
	if skip > len(items) {
		return []T{}
	}
	items = items[skip:]
	if p.Limit != repository.NoLimit && p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

type memEmotions struct {
	mu       sync.Mutex
	ids      idGen
	rows     map[string]entity.EmotionRecord
	analysis map[string]map[string]any
	listErr  error
}

func newMemEmotions() *memEmotions {
	return &memEmotions{rows: map[string]entity.EmotionRecord{}, analysis: map[string]map[string]any{}}
}

func (m *memEmotions) Create(_ context.Context, e *entity.EmotionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.ids.next("emotion")
	if e.RecordedAt.IsZero() {
		e.RecordedAt = fixedNow
	}
	e.CreatedAt = fixedNow
	m.rows[e.ID] = *e
	return nil
}

func (m *memEmotions) Get(_ context.Context, userID, id string) (*entity.EmotionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *memEmotions) List(_ context.Context, userID string, tr repository.TimeRange, p repository.Page) ([]entity.EmotionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.EmotionRecord{}
	for _, e := range m.rows {
		if e.UserID == userID && inRange(e.RecordedAt, tr) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return page(out, p), nil
}

func (m *memEmotions) Update(_ context.Context, e *entity.EmotionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[e.ID]
	if !ok || cur.UserID != e.UserID {
		return repository.ErrNotFound
	}
	now := fixedNow
	e.UpdatedAt = &now
	m.rows[e.ID] = *e
	return nil
}

func (m *memEmotions) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok || e.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memEmotions) SetAnalysis(_ context.Context, id string, a map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.AIAnalysis = a
	m.rows[id] = e
	m.analysis[id] = a
	return nil
}

type memSessions struct {
	mu   sync.Mutex
	ids  idGen
	rows map[string]entity.FocusSession
}

func newMemSessions() *memSessions { return &memSessions{rows: map[string]entity.FocusSession{}} }

func (m *memSessions) Create(_ context.Context, s *entity.FocusSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.ids.next("session")
	if s.StartTime.IsZero() {
		s.StartTime = fixedNow
	}
	s.CreatedAt = fixedNow
	m.rows[s.ID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, userID, id string) (*entity.FocusSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Current(ctx context.Context, userID string) (*entity.FocusSession, error) {
	all, _ := m.List(ctx, userID, repository.TimeRange{}, repository.All)
	for i := range all {
		if !all[i].Ended() {
			return &all[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSessions) List(_ context.Context, userID string, tr repository.TimeRange, p repository.Page) ([]entity.FocusSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.FocusSession{}
	for _, s := range m.rows {
		if s.UserID == userID && inRange(s.StartTime, tr) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return page(out, p), nil
}

func (m *memSessions) Update(_ context.Context, s *entity.FocusSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[s.ID]
	if !ok || cur.UserID != s.UserID {
		return repository.ErrNotFound
	}
	m.rows[s.ID] = *s
	return nil
}

type memTodos struct {
	mu   sync.Mutex
	ids  idGen
	rows map[string]entity.TodoItem
}

func newMemTodos() *memTodos { return &memTodos{rows: map[string]entity.TodoItem{}} }

func (m *memTodos) Create(_ context.Context, t *entity.TodoItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.ids.next("todo")
	t.CreatedAt = fixedNow
	m.rows[t.ID] = *t
	return nil
}

func (m *memTodos) Get(_ context.Context, userID, id string) (*entity.TodoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (m *memTodos) List(_ context.Context, userID string, completed *bool, p repository.Page) ([]entity.TodoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.TodoItem{}
	for _, t := range m.rows {
		if t.UserID != userID || (completed != nil && t.Completed != *completed) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID > out[j].ID
	})
	return page(out, p), nil
}

func (m *memTodos) Update(_ context.Context, t *entity.TodoItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[t.ID]
	if !ok || cur.UserID != t.UserID {
		return repository.ErrNotFound
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTodos) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memFeedbacks struct {
	mu   sync.Mutex
	ids  idGen
	rows []entity.AIFeedback
}

func (m *memFeedbacks) Create(_ context.Context, f *entity.AIFeedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.ids.next("feedback")
	f.CreatedAt = fixedNow
	m.rows = append(m.rows, *f)
	return nil
}

func (m *memFeedbacks) ListRecent(_ context.Context, userID string, limit int) ([]entity.AIFeedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.AIFeedback{}
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

type memCache struct {
	mu          sync.Mutex
	data        map[string]map[string]any
	loads       int
	invalidated []string
}

func newMemCache() *memCache { return &memCache{data: map[string]map[string]any{}} }

func (c *memCache) Load(_ context.Context, userID, kind, variant string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	v, ok := c.data[kind+":"+userID][variant]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *EmotionStats:
		*d = v.(EmotionStats)
	case *FocusStats:
		*d = v.(FocusStats)
	case *TodoStats:
		*d = v.(TodoStats)
	}
	return true, nil
}

func (c *memCache) Store(_ context.Context, userID, kind, variant string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := kind + ":" + userID
	if c.data[key] == nil {
		c.data[key] = map[string]any{}
	}
	c.data[key][variant] = v
	return nil
}

func (c *memCache) Invalidate(_ context.Context, userID, kind string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, kind+":"+userID)
	c.invalidated = append(c.invalidated, kind)
	return nil
}

type recPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type recIndex struct {
	mu      sync.Mutex
	indexed map[string]entity.EmotionRecord
	hits    []map[string]any
	lastQ   string
}

func newRecIndex() *recIndex { return &recIndex{indexed: map[string]entity.EmotionRecord{}} }

func (x *recIndex) Index(_ context.Context, e *entity.EmotionRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.indexed[e.ID] = *e
	return nil
}

func (x *recIndex) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.indexed, id)
	return nil
}

func (x *recIndex) Search(_ context.Context, userID, q string, size int) ([]map[string]any, error) {
	x.lastQ = userID + "|" + q + "|" + strconv.Itoa(size)
	return x.hits, nil
}

type stubAnalyzer struct {
	res ai.Sentiment
	ok  bool
	err error
}

func (s stubAnalyzer) Analyze(context.Context, string) (ai.Sentiment, bool, error) {
	return s.res, s.ok, s.err
}

type stubGenerator struct {
	text       string
	err        error
	keyErr     error
	gotKey     string
	gotPrompt  string
	gotSystem  string
	checkCalls int
}

func (g *stubGenerator) Generate(_ context.Context, apiKey, system, prompt string) (string, error) {
	g.gotKey, g.gotSystem, g.gotPrompt = apiKey, system, prompt
	return g.text, g.err
}

func (g *stubGenerator) CheckKey(_ context.Context, apiKey string) error {
	g.checkCalls++
	g.gotKey = apiKey
	return g.keyErr
}
