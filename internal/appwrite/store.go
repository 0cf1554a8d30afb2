// Package appwrite binds the REST client to the core capability
// interfaces. It is the default backend; the self-hosted postgres store
// and local disk storage replace it per component via configuration.
package appwrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"snapgram/internal/core"
	"snapgram/pkg/appwrite"
)

// Store implements core.DocumentStore on top of an Appwrite database.
type Store struct {
	Config *core.Config
	Client *Client
}

func (s *Store) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*core.Document, error) {
	doc, err := s.Client.api.CreateDocument(ctx, s.Config.AppwriteDatabaseID, collection, id, data)
	if err != nil {
		return nil, mapError(err)
	}
	return coreDocument(*doc), nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (*core.Document, error) {
	doc, err := s.Client.api.GetDocument(ctx, s.Config.AppwriteDatabaseID, collection, id)
	if err != nil {
		return nil, mapError(err)
	}
	return coreDocument(*doc), nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*core.Document, error) {
	doc, err := s.Client.api.UpdateDocument(ctx, s.Config.AppwriteDatabaseID, collection, id, data)
	if err != nil {
		return nil, mapError(err)
	}
	return coreDocument(*doc), nil
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	return mapError(s.Client.api.DeleteDocument(ctx, s.Config.AppwriteDatabaseID, collection, id))
}

func (s *Store) ListDocuments(ctx context.Context, collection string, queries ...core.Query) (*core.DocumentList, error) {
	encoded := lo.Map(queries, func(q core.Query, _ int) string {
		switch q.Kind {
		case core.QuerySearch:
			return appwrite.QuerySearch(q.Field, q.Value.(string))
		case core.QueryOrderDesc:
			return appwrite.QueryOrderDesc(q.Field)
		case core.QueryLimit:
			return appwrite.QueryLimit(q.Limit)
		case core.QueryCursorAfter:
			return appwrite.QueryCursorAfter(q.Cursor)
		default:
			return appwrite.QueryEqual(q.Field, q.Value)
		}
	})

	list, err := s.Client.api.ListDocuments(ctx, s.Config.AppwriteDatabaseID, collection, encoded...)
	if err != nil {
		return nil, mapError(err)
	}

	return &core.DocumentList{
		Total: list.Total,
		Documents: lo.Map(list.Documents, func(doc appwrite.Document, _ int) core.Document {
			return *coreDocument(doc)
		}),
	}, nil
}

// mapError folds the backend's 404 envelope into the shared taxonomy;
// everything else passes through untouched.
func mapError(err error) error {
	var apiErr *appwrite.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", core.ErrNotFound, apiErr.Message)
	}
	return err
}

func coreDocument(doc appwrite.Document) *core.Document {
	return &core.Document{
		ID:           doc.ID,
		CollectionID: doc.CollectionID,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		Data:         doc.Data,
	}
}
