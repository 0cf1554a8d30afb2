// Package postgres is the self-hosted core.DocumentStore: one documents
// table, payloads in a jsonb column, queried through the same primitives
// the Appwrite backend exposes.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snapgram/internal/core"
)

type document struct {
	ID         string `gorm:"primaryKey"`
	Collection string `gorm:"index"`
	Data       []byte `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (document) TableName() string {
	return "documents"
}

type Store struct {
	Config *core.Config

	db *gorm.DB
}

func (s *Store) Init(_ context.Context) error {
	if s.Config.DatabaseURL == "" {
		return core.ErrNoDatabaseURL
	}

	gormDB, err := gorm.Open(postgres.Open(s.Config.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	s.db = gormDB

	return nil
}

func (s *Store) DB() (*sql.DB, error) {
	return s.db.DB()
}

func (s *Store) Shutdown(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

// EstimatedCount reads reltuples for the documents table, used by the
// metrics collector.
func (s *Store) EstimatedCount(tableName string) (int64, error) {
	var count int64
	return count, s.db.Raw(
		`SELECT reltuples::bigint AS count
				FROM pg_class
				WHERE relname = ?`, tableName,
	).Scan(&count).Error
}

func (s *Store) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*core.Document, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := document{
		ID:         id,
		Collection: collection,
		Data:       payload,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return coreDocument(row)
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (*core.Document, error) {
	var row document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return coreDocument(row)
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*core.Document, error) {
	doc, err := s.GetDocument(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	for k, v := range data {
		doc.Data[k] = v
	}
	payload, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).
		Model(&document{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{"data": payload, "updated_at": now}).Error
	if err != nil {
		return nil, err
	}

	doc.UpdatedAt = now
	return doc, nil
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListDocuments(ctx context.Context, collection string, queries ...core.Query) (*core.DocumentList, error) {
	base := s.db.WithContext(ctx).Model(&document{}).Where("collection = ?", collection)

	orderColumn := "created_at"
	ordered := false
	limit := 0
	cursor := ""

	for _, q := range queries {
		switch q.Kind {
		case core.QueryEqual:
			base = base.Where("data->>? = ?", q.Field, q.Value)
		case core.QuerySearch:
			base = base.Where("data->>? ILIKE ?", q.Field, "%"+q.Value.(string)+"%")
		case core.QueryOrderDesc:
			orderColumn = sortColumn(q.Field)
			ordered = true
		case core.QueryLimit:
			limit = q.Limit
		case core.QueryCursorAfter:
			cursor = q.Cursor
		}
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	query := base.Session(&gorm.Session{})
	if ordered {
		query = query.Order(orderColumn + " DESC, id DESC")
	} else {
		query = query.Order("created_at ASC, id ASC")
	}

	if cursor != "" {
		withCursor, err := s.applyCursor(ctx, query, collection, cursor, orderColumn, ordered)
		if err != nil {
			return nil, err
		}
		query = withCursor
	}

	return s.fetch(query, total, limit)
}

func (s *Store) applyCursor(ctx context.Context, query *gorm.DB, collection, cursor, orderColumn string, ordered bool) (*gorm.DB, error) {
	var row document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, cursor).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return query, nil
		}
		return nil, err
	}

	key := row.CreatedAt
	if orderColumn == "updated_at" {
		key = row.UpdatedAt
	}

	if ordered {
		return query.Where("("+orderColumn+", id) < (?, ?)", key, row.ID), nil
	}
	return query.Where("(created_at, id) > (?, ?)", row.CreatedAt, row.ID), nil
}

func (s *Store) fetch(query *gorm.DB, total int64, limit int) (*core.DocumentList, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []document
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := coreDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	return &core.DocumentList{Total: total, Documents: docs}, nil
}

func sortColumn(field string) string {
	switch field {
	case "$updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

func coreDocument(row document) (*core.Document, error) {
	data := map[string]any{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, err
		}
	}
	return &core.Document{
		ID:           row.ID,
		CollectionID: row.Collection,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Data:         data,
	}, nil
}
