// Package memory is an in-process core.DocumentStore used by tests and
// local demos. Listing honors the same query primitives as the real
// backends; the native order is insertion order.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"snapgram/internal/core"
)

type Store struct {
	// Now is the clock used for document timestamps, swappable in tests.
	Now func() time.Time

	mu          sync.Mutex
	collections map[string][]core.Document
}

func New() *Store {
	s := &Store{}
	s.Init(context.Background()) //nolint:errcheck

	return s
}

func (s *Store) Init(_ context.Context) error {
	if s.Now == nil {
		s.Now = time.Now
	}
	s.collections = map[string][]core.Document{}

	return nil
}

func (s *Store) CreateDocument(_ context.Context, collection, id string, data map[string]any) (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if doc.ID == id {
			return nil, core.ErrDuplicateID
		}
	}

	now := s.Now()
	doc := core.Document{
		ID:           id,
		CollectionID: collection,
		CreatedAt:    now,
		UpdatedAt:    now,
		Data:         cloneData(data),
	}
	s.collections[collection] = append(s.collections[collection], doc)

	return cloneDoc(doc), nil
}

func (s *Store) GetDocument(_ context.Context, collection, id string) (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if doc.ID == id {
			return cloneDoc(doc), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) UpdateDocument(_ context.Context, collection, id string, data map[string]any) (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if doc.ID != id {
			continue
		}
		for k, v := range data {
			doc.Data[k] = v
		}
		doc.UpdatedAt = s.Now()
		docs[i] = doc
		return cloneDoc(doc), nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) DeleteDocument(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if doc.ID == id {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListDocuments(_ context.Context, collection string, queries ...core.Query) (*core.DocumentList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := lo.Filter(s.collections[collection], func(doc core.Document, _ int) bool {
		return matches(doc, queries)
	})

	for _, q := range queries {
		if q.Kind == core.QueryOrderDesc {
			orderDesc(docs, q.Field)
		}
	}

	total := int64(len(docs))

	for _, q := range queries {
		if q.Kind == core.QueryCursorAfter {
			docs = afterCursor(docs, q.Cursor)
		}
	}
	for _, q := range queries {
		if q.Kind == core.QueryLimit && len(docs) > q.Limit {
			docs = docs[:q.Limit]
		}
	}

	return &core.DocumentList{
		Total: total,
		Documents: lo.Map(docs, func(doc core.Document, _ int) core.Document {
			return *cloneDoc(doc)
		}),
	}, nil
}

func matches(doc core.Document, queries []core.Query) bool {
	for _, q := range queries {
		switch q.Kind {
		case core.QueryEqual:
			if fieldValue(doc, q.Field) != q.Value {
				return false
			}
		case core.QuerySearch:
			term, _ := q.Value.(string)
			value, _ := fieldValue(doc, q.Field).(string)
			if !strings.Contains(strings.ToLower(value), strings.ToLower(term)) {
				return false
			}
		}
	}
	return true
}

func orderDesc(docs []core.Document, field string) {
	sort.SliceStable(docs, func(i, j int) bool {
		switch field {
		case "$createdAt":
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		case "$updatedAt":
			return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
		default:
			a, _ := fieldValue(docs[i], field).(string)
			b, _ := fieldValue(docs[j], field).(string)
			return a > b
		}
	})
}

func afterCursor(docs []core.Document, cursor string) []core.Document {
	_, i, found := lo.FindIndexOf(docs, func(doc core.Document) bool {
		return doc.ID == cursor
	})
	if !found {
		return docs
	}
	return docs[i+1:]
}

func fieldValue(doc core.Document, field string) any {
	switch field {
	case "$id":
		return doc.ID
	default:
		return doc.Data[field]
	}
}

func cloneDoc(doc core.Document) *core.Document {
	doc.Data = cloneData(doc.Data)
	return &doc
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if ss, ok := v.([]string); ok {
			out[k] = append([]string(nil), ss...)
			continue
		}
		out[k] = v
	}
	return out
}
