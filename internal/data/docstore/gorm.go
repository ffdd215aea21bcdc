package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

// DocumentRow is the single table every collection is stored in.
type DocumentRow struct {
	Collection string         `gorm:"primaryKey;size:64;column:collection"`
	ID         string         `gorm:"primaryKey;size:36;column:id"`
	Body       datatypes.JSON `gorm:"not null;column:body"`
	Version    int64          `gorm:"not null;default:1;column:version"`
	CreatedAt  time.Time      `gorm:"not null;index;column:created_at"`
	UpdatedAt  time.Time      `gorm:"not null;column:updated_at"`
}

func (DocumentRow) TableName() string { return "documents" }

// Gorm is a Store backed by a relational database through gorm. Bodies are
// stored as JSON (jsonb on postgres) and filtered in SQL.
type Gorm struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ Store = (*Gorm)(nil)

func NewGorm(db *gorm.DB, baseLog *logger.Logger) *Gorm {
	return &Gorm{db: db, log: baseLog.With("store", "GormDocumentStore")}
}

// AutoMigrate creates the documents table.
func (g *Gorm) AutoMigrate() error {
	return g.db.AutoMigrate(&DocumentRow{})
}

func (g *Gorm) dialect() string {
	if g.db == nil || g.db.Dialector == nil {
		return ""
	}
	return g.db.Dialector.Name()
}

func (g *Gorm) scoped(ctx context.Context, tx *gorm.DB, collection string) *gorm.DB {
	if tx == nil {
		tx = g.db
	}
	return tx.WithContext(ctx).Model(&DocumentRow{}).Where("collection = ?", collection)
}

// where translates a Filter into SQL conditions for the active dialect.
func (g *Gorm) where(q *gorm.DB, filter Filter) (*gorm.DB, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	postgres := g.dialect() == "postgres"
	for _, key := range filter.Keys() {
		val := filter[key]
		if key == FieldID {
			if set, ok := val.(InSet); ok {
				if len(set) == 0 {
					q = q.Where("1 = 0")
					continue
				}
				q = q.Where("id IN ?", []any(set))
			} else {
				q = q.Where("id = ?", val)
			}
			continue
		}
		path := "$." + key
		switch v := val.(type) {
		case InSet:
			if len(v) == 0 {
				q = q.Where("1 = 0")
				continue
			}
			if postgres {
				texts := make([]string, 0, len(v))
				for _, item := range v {
					texts = append(texts, jsonText(item))
				}
				q = q.Where("body->>? IN ?", key, texts)
			} else {
				items := make([]any, 0, len(v))
				for _, item := range v {
					items = append(items, sqliteScalar(item))
				}
				q = q.Where("json_extract(body, ?) IN ?", path, items)
			}
		case nil:
			if postgres {
				q = q.Where("body->>? IS NULL", key)
			} else {
				q = q.Where("json_extract(body, ?) IS NULL", path)
			}
		default:
			if postgres {
				raw, err := json.Marshal(map[string]any{key: v})
				if err != nil {
					return nil, err
				}
				q = q.Where("body @> ?::jsonb", string(raw))
			} else {
				q = q.Where("json_extract(body, ?) = ?", path, sqliteScalar(v))
			}
		}
	}
	return q, nil
}

func (g *Gorm) FindByID(ctx context.Context, collection, id string) (Document, error) {
	var row DocumentRow
	err := g.scoped(ctx, nil, collection).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowDocument(row)
}

func (g *Gorm) FindMany(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error) {
	q, err := g.where(g.scoped(ctx, nil, collection), filter)
	if err != nil {
		return nil, err
	}
	q = q.Order("created_at ASC").Order("id ASC")
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	var rows []DocumentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := rowDocument(row)
		if err != nil {
			return nil, err
		}
		out = append(out, project(doc, opts.Projection))
	}
	return out, nil
}

func (g *Gorm) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	q, err := g.where(g.scoped(ctx, nil, collection), filter)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (g *Gorm) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
	}
	body, err := json.Marshal(stripInternal(doc))
	if err != nil {
		return "", err
	}
	row := DocumentRow{
		Collection: collection,
		ID:         id,
		Body:       datatypes.JSON(body),
		Version:    1,
	}
	res := g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrDuplicateID
	}
	g.log.Debug("document inserted", "collection", collection, "id", id)
	return row.ID, nil
}

func (g *Gorm) UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error) {
	var modified int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := g.where(g.scoped(ctx, tx, collection), filter)
		if err != nil {
			return err
		}
		var rows []DocumentRow
		if err := q.Order("created_at ASC").Order("id ASC").Limit(1).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		target, err := rowDocument(rows[0])
		if err != nil {
			return err
		}
		for k, v := range stripInternal(patch) {
			target[k] = v
		}
		body, err := json.Marshal(stripInternal(target))
		if err != nil {
			return err
		}
		res := g.scoped(ctx, tx, collection).
			Where("id = ?", rows[0].ID).
			Updates(map[string]any{
				"body":    datatypes.JSON(body),
				"version": gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		modified = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return modified, nil
}

func (g *Gorm) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	var deleted int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := g.where(g.scoped(ctx, tx, collection), filter)
		if err != nil {
			return err
		}
		var ids []string
		if err := q.Order("created_at ASC").Order("id ASC").Limit(1).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		res := tx.WithContext(ctx).
			Where("collection = ? AND id = ?", collection, ids[0]).
			Delete(&DocumentRow{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Save writes doc back. With a version present it behaves as
// compare-and-swap on the version column.
func (g *Gorm) Save(ctx context.Context, collection string, doc Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("save %s: document has no id", collection)
	}
	body, err := json.Marshal(stripInternal(doc))
	if err != nil {
		return err
	}
	q := g.scoped(ctx, nil, collection).Where("id = ?", id)
	if expected := doc.Version(); expected != 0 {
		q = q.Where("version = ?", expected)
	}
	res := q.Updates(map[string]any{
		"body":    datatypes.JSON(body),
		"version": gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	current, err := g.FindByID(ctx, collection, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	g.log.Debug("document save lost version race", "collection", collection, "id", id, "expected", doc.Version(), "current", current.Version())
	return ErrVersionConflict
}

func (g *Gorm) Populate(ctx context.Context, doc Document, spec PopulateSpec) (Document, error) {
	return populate(ctx, func(ctx context.Context, collection string, ids []string) ([]Document, error) {
		return g.FindMany(ctx, collection, Filter{FieldID: In(ids...)}, FindOptions{})
	}, doc, spec)
}

func rowDocument(row DocumentRow) (Document, error) {
	doc, err := decode(row.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", row.Collection, row.ID, err)
	}
	if doc == nil {
		doc = Document{}
	}
	doc[FieldID] = row.ID
	doc[FieldVersion] = row.Version
	doc[FieldCollection] = row.Collection
	return doc, nil
}

// jsonText renders a value the way postgres' ->> operator does.
func jsonText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// sqliteScalar converts a value to what json_extract yields for it.
// Times are bound in their JSON form so they compare equal to the body.
func sqliteScalar(v any) any {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	case time.Time, *time.Time:
		return jsonText(t)
	case map[string]any, []any, Document:
		raw, _ := json.Marshal(t)
		return string(raw)
	}
	return v
}
