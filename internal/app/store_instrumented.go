package app

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	"github.com/yungbote/workspace-backend/internal/observability"
)

// instrumentedStore records every document store primitive on the metrics.
type instrumentedStore struct {
	driver  string
	inner   docstore.Store
	metrics *observability.Metrics
}

var _ docstore.Store = (*instrumentedStore)(nil)

func instrumentStore(driver string, inner docstore.Store, metrics *observability.Metrics) docstore.Store {
	if inner == nil || metrics == nil {
		return inner
	}
	return &instrumentedStore{driver: driver, inner: inner, metrics: metrics}
}

func (s *instrumentedStore) FindByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	start := time.Now()
	out, err := s.inner.FindByID(ctx, collection, id)
	s.observe(docstore.OpFindByID, err, start)
	return out, err
}

func (s *instrumentedStore) FindMany(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Document, error) {
	start := time.Now()
	out, err := s.inner.FindMany(ctx, collection, filter, opts)
	s.observe(docstore.OpFindMany, err, start)
	return out, err
}

func (s *instrumentedStore) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	start := time.Now()
	out, err := s.inner.Count(ctx, collection, filter)
	s.observe(docstore.OpCount, err, start)
	return out, err
}

func (s *instrumentedStore) InsertOne(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	start := time.Now()
	out, err := s.inner.InsertOne(ctx, collection, doc)
	s.observe(docstore.OpInsertOne, err, start)
	return out, err
}

func (s *instrumentedStore) UpdateOne(ctx context.Context, collection string, filter docstore.Filter, patch docstore.Document) (int64, error) {
	start := time.Now()
	out, err := s.inner.UpdateOne(ctx, collection, filter, patch)
	s.observe(docstore.OpUpdateOne, err, start)
	return out, err
}

func (s *instrumentedStore) DeleteOne(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	start := time.Now()
	out, err := s.inner.DeleteOne(ctx, collection, filter)
	s.observe(docstore.OpDeleteOne, err, start)
	return out, err
}

func (s *instrumentedStore) Save(ctx context.Context, collection string, doc docstore.Document) error {
	start := time.Now()
	err := s.inner.Save(ctx, collection, doc)
	s.observe(docstore.OpSave, err, start)
	return err
}

func (s *instrumentedStore) Populate(ctx context.Context, doc docstore.Document, spec docstore.PopulateSpec) (docstore.Document, error) {
	start := time.Now()
	out, err := s.inner.Populate(ctx, doc, spec)
	s.observe(docstore.OpPopulate, err, start)
	return out, err
}

func (s *instrumentedStore) observe(op docstore.Primitive, err error, start time.Time) {
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, docstore.ErrVersionConflict):
		status = "conflict"
	case errors.Is(err, docstore.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	s.metrics.ObserveStoreOperation(s.driver, string(op), status, time.Since(start))
}
