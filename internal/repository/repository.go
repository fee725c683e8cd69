package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvinosei/momograph/internal/dataset"
	"github.com/kelvinosei/momograph/internal/domain"
	"github.com/kelvinosei/momograph/internal/graph"
)

// Repository encapsulates graph persistence for the transaction dataset.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureConstraints creates the per-label id uniqueness constraints and waits
// for them to come online. The constraints are what make concurrent MERGEs
// safe, so ingestion must not start before this returns.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	for _, stmt := range constraintStatements {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}
	if _, err := r.client.ExecuteRead(ctx, awaitIndexesCypher, nil); err != nil {
		return fmt.Errorf("await indexes: %w", err)
	}
	return nil
}

// LoadBatch upserts one batch of enriched records in a single transaction.
// All node merges are idempotent; the receiver is relabelled User->Merchant
// at most once; TRANSACTS_WITH properties are set only on first creation, so
// replaying a batch never rewrites amount, timestamp, or label.
func (r *Repository) LoadBatch(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if rec.SenderID == "" || rec.ReceiverID == "" {
			return fmt.Errorf("record %s: sender and receiver identities are required", rec.TransactionID)
		}
		rows = append(rows, map[string]any{
			"transaction_id":   rec.TransactionID,
			"sender_id":        rec.SenderID,
			"receiver_id":      rec.ReceiverID,
			"receiver_type":    rec.ReceiverType,
			"amount":           rec.Amount,
			"timestamp":        rec.Timestamp.Format(dataset.TimestampLayout),
			"sender_device_id": rec.DeviceID,
			"sender_location":  rec.Location,
			"sender_phone":     rec.Phone,
			"sender_email":     rec.Email,
			"label":            rec.Label,
		})
	}

	if _, err := r.client.ExecuteWrite(ctx, loadBatchCypher, map[string]any{"rows": rows}); err != nil {
		return fmt.Errorf("load batch of %d records: %w", len(records), err)
	}
	return nil
}

// ComputeCoUsers derives the shared-device co-user count for every user and
// writes it onto the node. Re-running overwrites previous values.
func (r *Repository) ComputeCoUsers(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, coUsersCypher, nil); err != nil {
		return fmt.Errorf("compute device co-users: %w", err)
	}
	return nil
}

// FetchUserFeatures reads the per-user algorithm outputs plus the co-user
// count, defaulting missing values so the classifier never sees nulls.
func (r *Repository) FetchUserFeatures(ctx context.Context) ([]domain.UserFeatures, error) {
	res, err := r.client.ExecuteRead(ctx, userFeaturesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch user features: %w", err)
	}

	features := make([]domain.UserFeatures, 0, len(res.Records))
	for _, record := range res.Records {
		features = append(features, domain.UserFeatures{
			UserID:    toString(record["user"]),
			Degree:    int(toInt64(record["degree"])),
			Triangles: int(toInt64(record["triangles"])),
			Community: toInt64(record["community"]),
			PageRank:  toFloat64(record["pr"]),
			CoUsers:   int(toInt64(record["coUsers"])),
		})
	}
	return features, nil
}

// WriteRiskFlags persists the rule outcomes onto User nodes in batches. Both
// flags are written for every user so stale values from earlier runs cannot
// survive.
func (r *Repository) WriteRiskFlags(ctx context.Context, assessments []domain.RiskAssessment, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 1000
	}
	for start := 0; start < len(assessments); start += batchSize {
		end := start + batchSize
		if end > len(assessments) {
			end = len(assessments)
		}

		rows := make([]map[string]any, 0, end-start)
		for _, a := range assessments[start:end] {
			rows = append(rows, map[string]any{
				"user":       a.UserID,
				"suspicious": a.Suspicious,
				"highRisk":   a.HighRisk,
			})
		}
		if _, err := r.client.ExecuteWrite(ctx, writeRiskFlagsCypher, map[string]any{"rows": rows}); err != nil {
			return fmt.Errorf("write risk flags: %w", err)
		}
	}
	return nil
}

// FetchFlaggedUsers returns the feature rows of every suspicious or
// high-risk user, ordered by id for determinism. Ranking and capping are the
// caller's concern.
func (r *Repository) FetchFlaggedUsers(ctx context.Context) ([]domain.RiskRow, error) {
	res, err := r.client.ExecuteRead(ctx, flaggedUsersCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch flagged users: %w", err)
	}

	rows := make([]domain.RiskRow, 0, len(res.Records))
	for _, record := range res.Records {
		rows = append(rows, domain.RiskRow{
			UserID:    toString(record["user"]),
			HighRisk:  toBool(record["highRisk"]),
			CoUsers:   int(toInt64(record["coUsers"])),
			PageRank:  toFloat64(record["pr"]),
			Degree:    int(toInt64(record["degree"])),
			Triangles: int(toInt64(record["triangles"])),
			Community: toInt64(record["community"]),
		})
	}
	return rows, nil
}

// CountNodes returns the total node count, used by the connectivity check.
func (r *Repository) CountNodes(ctx context.Context) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countNodesCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, errors.New("count nodes: empty result")
	}
	return toInt64(res.Records[0]["total"]), nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toBool(val any) bool {
	b, ok := val.(bool)
	return ok && b
}
