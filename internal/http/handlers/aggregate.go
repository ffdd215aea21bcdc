package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/http/response"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

const (
	queryPage         = "page"
	queryItemsPerPage = "itemsPerPage"
)

// AggregateHandler serves the generic CRUD and relation surface of one collection.
type AggregateHandler struct {
	repo *aggregates.Repository
	log  *logger.Logger
}

func NewAggregateHandler(repo *aggregates.Repository, log *logger.Logger) *AggregateHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AggregateHandler{repo: repo, log: log.With("handler", repo.Collection())}
}

func (h *AggregateHandler) Collection() string { return h.repo.Collection() }

// POST /api/:collection
func (h *AggregateHandler) Create(c *gin.Context) {
	var body docstore.Document
	if !bindBody(c, "create", &body) {
		return
	}
	doc, err := h.repo.Create(c.Request.Context(), body)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	response.RespondCreated(c, doc)
}

// GET /api/:collection/:id
func (h *AggregateHandler) Get(c *gin.Context) {
	doc, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	response.RespondOK(c, doc)
}

// GET /api/:collection/:id/exists
func (h *AggregateHandler) Exists(c *gin.Context) {
	ok, err := h.repo.Exists(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"exists": ok})
}

// GET /api/:collection?page=&itemsPerPage=&<field>=<value>
func (h *AggregateHandler) Query(c *gin.Context) {
	page, err := intParam(c, queryPage)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	perPage, err := intParam(c, queryItemsPerPage)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	filter, err := h.filterFromQuery(c)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	res, err := h.repo.Query(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// PATCH /api/:collection/:id
func (h *AggregateHandler) UpdateByID(c *gin.Context) {
	var patch docstore.Document
	if !bindBody(c, "updateById", &patch) {
		return
	}
	doc, err := h.repo.UpdateByID(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	response.RespondOK(c, doc)
}

type filterUpdateRequest struct {
	Filter docstore.Filter   `json:"filter"`
	Update docstore.Document `json:"update"`
}

// PATCH /api/:collection
func (h *AggregateHandler) UpdateWithFilter(c *gin.Context) {
	var req filterUpdateRequest
	if !bindBody(c, "updateWithFilter", &req) {
		return
	}
	doc, err := h.repo.UpdateWithFilter(c.Request.Context(), req.Filter, req.Update)
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	response.RespondOK(c, doc)
}

// DELETE /api/:collection/:id
func (h *AggregateHandler) Delete(c *gin.Context) {
	if err := h.repo.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/:collection/:id/:relation sets a single relation.
func (h *AggregateHandler) AddRelation(c *gin.Context) {
	var ref domainagg.Ref
	if !bindBody(c, "addOne", &ref) {
		return
	}
	if err := h.repo.AddOne(c.Request.Context(), c.Param("id"), c.Param("relation"), ref); err != nil {
		response.RespondRepoError(c, err)
		return
	}
	h.Get(c)
}

// POST /api/:collection/:id/:relation appends to a list relation.
func (h *AggregateHandler) AddRelations(c *gin.Context) {
	var refs []domainagg.Ref
	if !bindBody(c, "addMany", &refs) {
		return
	}
	if err := h.repo.AddMany(c.Request.Context(), c.Param("id"), c.Param("relation"), refs); err != nil {
		response.RespondRepoError(c, err)
		return
	}
	h.Get(c)
}

// DELETE /api/:collection/:id/:relation clears a single relation, or removes
// the listed refs from a list relation when a body is sent.
func (h *AggregateHandler) RemoveRelation(c *gin.Context) {
	ctx := c.Request.Context()
	id, relation := c.Param("id"), c.Param("relation")

	var refs []domainagg.Ref
	err := c.ShouldBindJSON(&refs)
	switch {
	case errors.Is(err, io.EOF):
		err = h.repo.RemoveOne(ctx, id, relation)
	case err != nil:
		err = domainagg.ArgumentError("removeMany", "invalid body: %v", err)
	default:
		err = h.repo.RemoveMany(ctx, id, relation, refs)
	}
	if err != nil {
		response.RespondRepoError(c, err)
		return
	}
	h.Get(c)
}

func bindBody(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondRepoError(c, domainagg.ArgumentError(op, "invalid body: %v", err))
		return false
	}
	return true
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainagg.ArgumentError("query", "%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// filterFromQuery turns the remaining query parameters into equality
// filters. Repeated keys become set membership. Values are coerced to
// the schema kind of the field they address.
func (h *AggregateHandler) filterFromQuery(c *gin.Context) (docstore.Filter, error) {
	kinds := map[string]aggregates.Kind{}
	for _, f := range h.repo.Schema().Fields {
		kinds[f.Name] = f.Kind
	}
	filter := docstore.Filter{}
	for key, raw := range c.Request.URL.Query() {
		if key == queryPage || key == queryItemsPerPage {
			continue
		}
		values := make([]any, 0, len(raw))
		for _, v := range raw {
			coerced, err := coerce(key, kinds[key], v)
			if err != nil {
				return nil, err
			}
			values = append(values, coerced)
		}
		if len(values) == 1 {
			filter[key] = values[0]
		} else {
			filter[key] = docstore.InSet(values)
		}
	}
	return filter, nil
}

func coerce(key string, kind aggregates.Kind, raw string) (any, error) {
	switch kind {
	case aggregates.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, domainagg.ArgumentError("query", "%s must be a bool, got %q", key, raw)
		}
		return b, nil
	case aggregates.KindInt, aggregates.KindFloat:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, domainagg.ArgumentError("query", "%s must be a number, got %q", key, raw)
		}
		return n, nil
	}
	return raw, nil
}
