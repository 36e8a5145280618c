package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// PBStore is the PocketBase-backed Store. It is constructed once at startup
// and injected into the domain services.
type PBStore struct {
	app core.App
}

func NewPBStore(app core.App) *PBStore {
	return &PBStore{app: app}
}

func (s *PBStore) GetOne(ctx context.Context, collection, id string) (Document, error) {
	rec, err := s.app.FindRecordById(collection, id)
	if err != nil {
		// A missing document is an absent result, not an error.
		return nil, nil
	}
	return recordToDocument(rec), nil
}

func (s *PBStore) GetMany(ctx context.Context, collection string, q Query) ([]Document, error) {
	filter, params := buildFilter(q.Filters)

	records, err := s.app.FindRecordsByFilter(collection, filter, q.Sort, q.Limit, 0, params)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, recordToDocument(rec))
	}
	return docs, nil
}

func (s *PBStore) Create(ctx context.Context, collection string, data Document, id string) (string, error) {
	col, err := s.app.FindCollectionByNameOrId(collection)
	if err != nil {
		return "", fmt.Errorf("find collection %s: %w", collection, err)
	}

	rec := core.NewRecord(col)
	if id != "" {
		rec.Set("id", id)
	}

	now := time.Now().UTC()
	for k, v := range data {
		rec.Set(k, v)
	}
	rec.Set("createdAt", now)
	rec.Set("updatedAt", now)

	if err := s.app.Save(rec); err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return rec.Id, nil
}

func (s *PBStore) Update(ctx context.Context, collection, id string, partial Document) error {
	rec, err := s.app.FindRecordById(collection, id)
	if err != nil {
		return ErrNotFound
	}

	for k, v := range partial {
		if k == "id" || k == "createdAt" {
			continue
		}
		rec.Set(k, v)
	}
	rec.Set("updatedAt", time.Now().UTC())

	if err := s.app.Save(rec); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PBStore) Delete(ctx context.Context, collection, id string) error {
	rec, err := s.app.FindRecordById(collection, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.app.Delete(rec); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Mutate runs the read-modify-write inside a database transaction so that
// concurrent callers cannot interleave between the read and the write.
func (s *PBStore) Mutate(ctx context.Context, collection, id string, fn func(Document) (Document, error)) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		rec, err := txApp.FindRecordById(collection, id)
		if err != nil {
			return ErrNotFound
		}

		partial, err := fn(recordToDocument(rec))
		if err != nil {
			return err
		}
		if partial == nil {
			return nil
		}

		for k, v := range partial {
			if k == "id" || k == "createdAt" {
				continue
			}
			rec.Set(k, v)
		}
		rec.Set("updatedAt", time.Now().UTC())

		return txApp.Save(rec)
	})
}

func buildFilter(filters []Filter) (string, dbx.Params) {
	if len(filters) == 0 {
		return "id != ''", dbx.Params{}
	}

	exprs := make([]string, 0, len(filters))
	params := dbx.Params{}
	for i, f := range filters {
		p := fmt.Sprintf("p%d", i)
		exprs = append(exprs, fmt.Sprintf("%s %s {:%s}", f.Field, f.Op, p))

		if t, ok := asTime(f.Value); ok {
			params[p] = t.UTC().Format(types.DefaultDateLayout)
		} else {
			params[p] = f.Value
		}
	}
	return strings.Join(exprs, " && "), params
}

func recordToDocument(rec *core.Record) Document {
	doc := Document{"id": rec.Id}
	for _, field := range rec.Collection().Fields {
		name := field.GetName()
		if name == "id" {
			continue
		}
		v := rec.Get(name)
		if dt, ok := v.(types.DateTime); ok {
			doc[name] = dt.Time()
			continue
		}
		doc[name] = v
	}
	return doc
}
