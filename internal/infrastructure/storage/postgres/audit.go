package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/audit"
)

// CompressionAlgo marks how an audit row's change set is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// auditRow is the persisted shape of an audit entry.
type auditRow struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            audit.Action    `db:"action"`
	ActorID           string          `db:"actor_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

var _ audit.Recorder = (*AuditStore)(nil)

// AuditStore persists audit entries, compressing large change sets
// with zstd. Writes go through the context transaction so the audit
// row commits or rolls back with the business change it describes.
type AuditStore struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditStore creates an audit store.
func NewAuditStore(txm *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditStore{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	row := auditRow{
		ID:              id.New(),
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Action:          entry.Action,
		ActorID:         entry.ActorID,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(entry.Changes) > 0 {
		changes, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("marshal changes: %w", err)
		}
		if len(changes) > s.compressThreshold {
			row.ChangesCompressed = s.encoder.EncodeAll(changes, nil)
			row.CompressionAlgo = CompressionZstd
		} else {
			row.Changes = changes
		}
	}

	const sql = `
		INSERT INTO audit_log (
			id, entity_type, entity_id, action, actor_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.txm.GetQuerier(ctx).Exec(ctx, sql,
		row.ID, row.EntityType, row.EntityID, row.Action, row.ActorID,
		row.Changes, row.ChangesCompressed, row.CompressionAlgo, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// decodeChanges restores the change set of a stored row.
func (s *AuditStore) decodeChanges(row auditRow) (json.RawMessage, error) {
	switch row.CompressionAlgo {
	case CompressionZstd:
		raw, err := s.decoder.DecodeAll(row.ChangesCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress changes: %w", err)
		}
		return raw, nil
	default:
		return row.Changes, nil
	}
}

// ListEntry is one audit row returned to callers, changes decoded.
type ListEntry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     audit.Action    `json:"action"`
	ActorID    string          `json:"actorId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ListByEntity returns the audit trail of one entity, newest first.
func (s *AuditStore) ListByEntity(ctx context.Context, entityType string, entityID id.ID, limit int) ([]ListEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	const sql = `
		SELECT id, entity_type, entity_id, action, actor_id,
		       changes, changes_compressed, compression_algo, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := s.txm.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var out []ListEntry
	for rows.Next() {
		var row auditRow
		if err := rows.Scan(
			&row.ID, &row.EntityType, &row.EntityID, &row.Action, &row.ActorID,
			&row.Changes, &row.ChangesCompressed, &row.CompressionAlgo, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		changes, err := s.decodeChanges(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ListEntry{
			ID:         row.ID,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Action:     row.Action,
			ActorID:    row.ActorID,
			Changes:    changes,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, rows.Err()
}

// Close releases the compression codecs.
func (s *AuditStore) Close() {
	s.encoder.Close()
	s.decoder.Close()
}
