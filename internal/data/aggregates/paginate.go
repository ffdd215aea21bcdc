package aggregates

import (
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// Page is one window of a query result.
type Page struct {
	Results       []docstore.Document `json:"results"`
	NumberOfItems int64               `json:"numberOfItems"`
	Page          int                 `json:"page"`
	ItemsPerPage  int                 `json:"itemsPerPage"`
}

// window validates a page request against a fresh total and returns the
// offset to fetch from. There is no snapshot between count and fetch.
func window(op string, count int64, page, itemsPerPage int) (int, error) {
	if page < 0 {
		return 0, domainagg.ArgumentError(op, "page must be >= 0, got %d", page)
	}
	if itemsPerPage <= 0 {
		return 0, domainagg.ArgumentError(op, "itemsPerPage must be > 0, got %d", itemsPerPage)
	}
	maxPage := count / int64(itemsPerPage)
	if int64(page) > maxPage {
		return 0, domainagg.ArgumentError(op, "page %d is out of range, maximum page is %d", page, maxPage)
	}
	return page * itemsPerPage, nil
}
