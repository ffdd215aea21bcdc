package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// mapStoreError wraps a store failure as database_operation. Typed errors
// pass through untouched so a domain error is never re-wrapped.
func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainagg.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, docstore.ErrVersionConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeDatabase, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := fmt.Sprintf("postgres %s: %s", strings.TrimSpace(pgErr.Code), strings.TrimSpace(pgErr.Message))
		return domainagg.NewError(domainagg.CodeDatabase, op, msg, err)
	}
	return domainagg.Wrap(domainagg.CodeDatabase, op, err)
}

// passValidatorError keeps typed errors raised by a schema validator and
// reports everything else as data_validation.
func passValidatorError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainagg.As(err); ok {
		return err
	}
	return domainagg.DataValidation(op, err)
}

// IsNotFound reports an aggregate_not_found failure, including a query
// that matched nothing.
func IsNotFound(err error) bool {
	return domainagg.IsCode(err, domainagg.CodeNotFound)
}
