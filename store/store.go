package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Collection names. One flat collection per entity type; relations are
// resolved by application-level queries on foreign-key fields.
const (
	CollectionProfiles      = "profiles"
	CollectionEvents        = "events"
	CollectionSessions      = "sessions"
	CollectionAttendees     = "attendees"
	CollectionSubscriptions = "subscriptions"
	CollectionPayments      = "payments"
	CollectionTickets       = "tickets"
	CollectionSponsors      = "sponsors"
	CollectionLeaderboards  = "leaderboards"
	CollectionWebhookEvents = "webhookEvents"
)

// ErrNotFound is returned by Mutate when the target document does not exist.
// GetOne reports a missing document as (nil, nil) instead.
var ErrNotFound = errors.New("store: document not found")

// ErrExists is returned by Create when the explicit id is already taken.
var ErrExists = errors.New("store: document already exists")

// Document is a flat record addressed by collection name and id.
type Document map[string]any

type Op string

const (
	OpEqual    Op = "="
	OpGTE      Op = ">="
	OpLTE      Op = "<="
	OpContains Op = "~"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes a filtered fetch. Sort is a field name, prefixed with "-"
// for descending order. Limit 0 means no limit.
type Query struct {
	Filters []Filter
	Sort    string
	Limit   int
}

// Store is the access layer over named collections. Create and Update stamp
// server-side createdAt/updatedAt timestamps. Mutate is the read-modify-write
// primitive for operations that would otherwise race (connection appends,
// point counters, leaderboard upserts).
type Store interface {
	GetOne(ctx context.Context, collection, id string) (Document, error)
	GetMany(ctx context.Context, collection string, q Query) ([]Document, error)
	Create(ctx context.Context, collection string, data Document, id string) (string, error)
	Update(ctx context.Context, collection, id string, partial Document) error
	Delete(ctx context.Context, collection, id string) error
	Mutate(ctx context.Context, collection, id string, fn func(Document) (Document, error)) error
}

func Eq(field string, value any) Filter  { return Filter{Field: field, Op: OpEqual, Value: value} }
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGTE, Value: value} }
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLTE, Value: value} }

// Decode maps a document onto a typed model via its json tags.
func Decode(doc Document, v any) error {
	if doc == nil {
		return ErrNotFound
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// DecodeAll maps a document slice onto a slice of typed models.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ToDocument flattens a typed model into a document via its json tags.
// The id field is stripped so it never collides with the record id.
func ToDocument(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	delete(doc, "id")
	return doc, nil
}

// asTime normalizes document values for time comparisons. Documents hold
// timestamps either as time.Time (fresh writes) or RFC3339 strings
// (json round-trips).
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
