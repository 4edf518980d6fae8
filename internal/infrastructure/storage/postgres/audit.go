package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/audit"
)

// compression algorithms stored in audit_log.compression_algo
const (
	compressionNone = "none"
	compressionZstd = "zstd"
)

// DefaultAuditCompressThreshold is the snapshot size above which changes are zstd-compressed.
const DefaultAuditCompressThreshold = 1024

// AuditRepo implements audit.Repository. Large snapshots are stored
// zstd-compressed and transparently expanded on read.
type AuditRepo struct {
	txm               *TxManager
	codec             *changesCodec
	compressThreshold int
}

var _ audit.Repository = (*AuditRepo)(nil)

// NewAuditRepo creates an audit repository; threshold <= 0 uses the default.
func NewAuditRepo(txm *TxManager, threshold int) (*AuditRepo, error) {
	codec, err := newChangesCodec()
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = DefaultAuditCompressThreshold
	}
	return &AuditRepo{txm: txm, codec: codec, compressThreshold: threshold}, nil
}

// Append records an audit entry in the current transaction.
func (r *AuditRepo) Append(ctx context.Context, e *audit.Entry) error {
	changes, compressed, algo := r.codec.pack(e.Changes, r.compressThreshold)

	query := `
		INSERT INTO audit_log (
			id, entity_type, entity_id, action, user_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
	`
	_, err := r.txm.GetQuerier(ctx).Exec(ctx, query,
		e.ID, e.EntityType, e.EntityID, string(e.Action), e.UserID,
		changes, compressed, algo, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History returns the entries of one record, newest first.
func (r *AuditRepo) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	query := `
		SELECT id, entity_type, entity_id, action, COALESCE(user_id, ''),
			   changes, changes_compressed, compression_algo, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var (
			e          audit.Entry
			action     string
			changes    []byte
			compressed []byte
			algo       string
		)
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &action, &e.UserID,
			&changes, &compressed, &algo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = audit.Action(action)

		e.Changes, err = r.codec.unpack(changes, compressed, algo)
		if err != nil {
			return nil, fmt.Errorf("audit entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// changesCodec compresses audit snapshots. zstd encoders and decoders are
// safe for concurrent EncodeAll/DecodeAll calls.
type changesCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newChangesCodec() (*changesCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &changesCodec{encoder: encoder, decoder: decoder}, nil
}

// pack returns either the plain JSON or the compressed bytes, never both.
func (c *changesCodec) pack(changes json.RawMessage, threshold int) (plain json.RawMessage, compressed []byte, algo string) {
	if len(changes) <= threshold {
		return changes, nil, compressionNone
	}
	return nil, c.encoder.EncodeAll(changes, nil), compressionZstd
}

func (c *changesCodec) unpack(plain, compressed []byte, algo string) (json.RawMessage, error) {
	switch algo {
	case compressionZstd:
		out, err := c.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress changes: %w", err)
		}
		return out, nil
	case compressionNone, "":
		return plain, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", algo)
	}
}
