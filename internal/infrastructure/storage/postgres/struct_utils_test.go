package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

type mockDocument struct {
	entity.BaseDocument
	Total  types.Money `db:"total_amount"`
	Hidden string      `db:"-"`
	Lines  []string
}

func TestColumns_IncludesEmbedded(t *testing.T) {
	cols := Columns[mockDocument]()

	for _, expected := range []string{"id", "tenant_id", "number", "created_at", "created_by", "total_amount"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, Columns[mockDocument]("number"), "number")
}

func TestStructToMap(t *testing.T) {
	tenant := id.New()
	doc := mockDocument{
		BaseDocument: entity.NewBaseDocument(tenant, "u1"),
		Total:        types.MustMoney("12.50"),
		Hidden:       "secret",
	}
	doc.Number = "S-2026-00001"

	m := StructToMap(&doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, tenant, m["tenant_id"])
	assert.Equal(t, "S-2026-00001", m["number"])
	assert.Equal(t, doc.Total, m["total_amount"])
	assert.NotContains(t, m, "Hidden")

	only := StructToMap(doc, "number")
	assert.Len(t, only, 1)
}
