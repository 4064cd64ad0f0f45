// Package document_repo provides PostgreSQL implementations for document repositories.
// A document is a header row plus ordered line rows keyed by the header ID.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// immutable header columns are written once on insert.
var immutable = []string{"id", "tenant_id", "number", "created_at", "created_by"}

// BaseDocumentRepo provides header+lines CRUD for one document type.
type BaseDocumentRepo[H any, L any] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	headerCols []string
	linesTable string
	foreignKey string
	lineCols   []string
	newFn      func() H
	headerID   func(H) id.ID
	lines      func(H) *[]L
	lineOwner  func(L) id.ID
}

// DocumentTable describes the tables of a document type.
type DocumentTable[H any, L any] struct {
	Table      string
	Entity     string
	HeaderCols []string
	LinesTable string
	ForeignKey string
	LineCols   []string
	New        func() H
	HeaderID   func(H) id.ID
	Lines      func(H) *[]L
	LineOwner  func(L) id.ID
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[H any, L any](txManager *postgres.TxManager, t DocumentTable[H, L]) *BaseDocumentRepo[H, L] {
	return &BaseDocumentRepo[H, L]{
		txManager:  txManager,
		tableName:  t.Table,
		entityName: t.Entity,
		headerCols: t.HeaderCols,
		linesTable: t.LinesTable,
		foreignKey: t.ForeignKey,
		lineCols:   t.LineCols,
		newFn:      t.New,
		headerID:   t.HeaderID,
		lines:      t.Lines,
		lineOwner:  t.LineOwner,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[H, L]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the header and its lines.
func (r *BaseDocumentRepo[H, L]) Create(ctx context.Context, doc H) error {
	q := r.Builder().
		Insert(r.tableName).
		SetMap(postgres.StructToMap(doc, r.headerCols...))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return r.insertLines(ctx, *r.lines(doc))
}

func (r *BaseDocumentRepo[H, L]) insertLines(ctx context.Context, lines []L) error {
	if len(lines) == 0 {
		return nil
	}
	q := r.Builder().Insert(r.linesTable).Columns(r.lineCols...)
	for _, l := range lines {
		row := postgres.StructToMap(l, r.lineCols...)
		values := make([]any, 0, len(r.lineCols))
		for _, c := range r.lineCols {
			values = append(values, row[c])
		}
		q = q.Values(values...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.linesTable, err)
	}
	return nil
}

func (r *BaseDocumentRepo[H, L]) baseSelect(tenantID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select(r.headerCols...).
		From(r.tableName).
		Where(squirrel.Eq{"tenant_id": tenantID})
}

// Get reads the header with lines. forUpdate locks the header row.
func (r *BaseDocumentRepo[H, L]) Get(ctx context.Context, tenantID, docID id.ID, forUpdate bool) (H, error) {
	doc := r.newFn()

	q := r.baseSelect(tenantID).Where(squirrel.Eq{"id": docID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, apperror.NewNotFound(r.entityName, docID.String())
		}
		return doc, fmt.Errorf("get %s: %w", r.entityName, err)
	}

	lines, err := r.selectLines(ctx, []id.ID{docID})
	if err != nil {
		return doc, err
	}
	*r.lines(doc) = lines[docID]
	return doc, nil
}

func (r *BaseDocumentRepo[H, L]) selectLines(ctx context.Context, docIDs []id.ID) (map[id.ID][]L, error) {
	out := make(map[id.ID][]L, len(docIDs))
	if len(docIDs) == 0 {
		return out, nil
	}

	q := r.Builder().
		Select(r.lineCols...).
		From(r.linesTable).
		Where(squirrel.Eq{r.foreignKey: docIDs}).
		OrderBy(r.foreignKey, "line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}
	var rows []L
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.linesTable, err)
	}
	for _, l := range rows {
		owner := r.lineOwner(l)
		out[owner] = append(out[owner], l)
	}
	return out, nil
}

// Update rewrites the mutable header columns and replaces every line.
func (r *BaseDocumentRepo[H, L]) Update(ctx context.Context, tenantID id.ID, doc H) error {
	docID := r.headerID(doc)
	set := postgres.StructToMap(doc, r.headerCols...)
	for _, c := range immutable {
		delete(set, c)
	}

	q := r.Builder().
		Update(r.tableName).
		SetMap(set).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, docID.String())
	}

	if err := r.deleteLines(ctx, docID); err != nil {
		return err
	}
	return r.insertLines(ctx, *r.lines(doc))
}

func (r *BaseDocumentRepo[H, L]) deleteLines(ctx context.Context, docID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.linesTable).
		Where(squirrel.Eq{r.foreignKey: docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", r.linesTable, err)
	}
	return nil
}

// Delete removes the lines and the header.
func (r *BaseDocumentRepo[H, L]) Delete(ctx context.Context, tenantID, docID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	// Header first: its tenant filter guards the line delete that follows.
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, docID.String())
	}
	return r.deleteLines(ctx, docID)
}

// List returns documents created in [from, to], oldest first, with lines.
func (r *BaseDocumentRepo[H, L]) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]H, error) {
	return r.list(ctx, withRange(r.baseSelect(tenantID), "created_at", from, to))
}

func (r *BaseDocumentRepo[H, L]) list(ctx context.Context, q squirrel.SelectBuilder) ([]H, error) {
	sql, args, err := q.OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []H
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}

	ids := make([]id.ID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, r.headerID(d))
	}
	lines, err := r.selectLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		*r.lines(d) = lines[r.headerID(d)]
	}
	return docs, nil
}

// withRange limits col to [from, to]; nil bounds are open.
func withRange(q squirrel.SelectBuilder, col string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{col: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{col: *to})
	}
	return q
}
