package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

var _ audit.Recorder = (*AuditLog)(nil)

// changes is the stored payload of an entry.
type changes struct {
	Before any `json:"before,omitempty"`
	After  any `json:"after,omitempty"`
}

// StoredEntry is an audit row with its changes decompressed.
type StoredEntry struct {
	ID         id.ID           `db:"id"`
	TenantID   id.ID           `db:"tenant_id"`
	EntityType string          `db:"entity_type"`
	EntityID   id.ID           `db:"entity_id"`
	Action     audit.Action    `db:"action"`
	UserID     string          `db:"user_id"`
	Changes    json.RawMessage `db:"changes"`
	CreatedAt  time.Time       `db:"created_at"`
}

// AuditLog writes audit entries into sys_audit inside the caller's
// transaction. Payloads above the threshold are stored zstd-compressed.
type AuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditLog creates a new audit log.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// Record implements audit.Recorder.
func (l *AuditLog) Record(ctx context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(changes{Before: entry.Before, After: entry.After})
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	plain, compressed, algo := l.encode(payload)

	sql := `
		INSERT INTO sys_audit (
			id, tenant_id, entity_type, entity_id, action, user_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = l.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.TenantID, entry.EntityType, entry.EntityID, entry.Action, entry.UserID,
		plain, compressed, algo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (l *AuditLog) encode(payload []byte) (json.RawMessage, []byte, CompressionAlgo) {
	if len(payload) <= l.compressThreshold {
		return payload, nil, CompressionNone
	}
	return nil, l.encoder.EncodeAll(payload, nil), CompressionZstd
}

func (l *AuditLog) decode(plain json.RawMessage, compressed []byte, algo CompressionAlgo) (json.RawMessage, error) {
	if algo != CompressionZstd || len(compressed) == 0 {
		return plain, nil
	}
	out, err := l.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress changes: %w", err)
	}
	return out, nil
}

// History returns the audit trail of one entity, newest first.
func (l *AuditLog) History(ctx context.Context, tenantID id.ID, entityType string, entityID id.ID, limit int) ([]StoredEntry, error) {
	sql := `
		SELECT id, tenant_id, entity_type, entity_id, action, user_id,
			   changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE tenant_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := l.txManager.GetQuerier(ctx).Query(ctx, sql, tenantID, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []StoredEntry
	for rows.Next() {
		var (
			e          StoredEntry
			compressed []byte
			algo       CompressionAlgo
		)
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.EntityType, &e.EntityID, &e.Action, &e.UserID,
			&e.Changes, &compressed, &algo, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Changes, err = l.decode(e.Changes, compressed, algo); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
