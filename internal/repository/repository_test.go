package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinosei/momograph/internal/domain"
	"github.com/kelvinosei/momograph/internal/graph"
)

func TestEnsureConstraints(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	require.NoError(t, repo.EnsureConstraints(context.Background()))

	writes := mem.WriteCalls()
	require.Len(t, writes, 6)
	labels := []string{":User", ":Merchant", ":Device", ":Location", ":Phone", ":Email"}
	for i, label := range labels {
		assert.Contains(t, writes[i].Query, "CREATE CONSTRAINT")
		assert.Contains(t, writes[i].Query, label)
		assert.Contains(t, writes[i].Query, "IS UNIQUE")
	}

	reads := mem.ReadCalls()
	require.Len(t, reads, 1)
	assert.Contains(t, reads[0].Query, "db.awaitIndexes")
}

func TestLoadBatchParameterizesRows(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	ts := time.Date(2025, time.January, 1, 5, 0, 0, 0, time.UTC)
	records := []domain.Record{
		{
			TransactionID: "T0000001",
			SenderID:      "aaa",
			ReceiverID:    "bbb",
			ReceiverType:  domain.ReceiverTypeMerchant,
			Amount:        181.0,
			Timestamp:     ts,
			DeviceID:      "D123456",
			Location:      "L001",
			Phone:         "P111111",
			Email:         "user1000@mail.com",
			Label:         1,
		},
		{
			TransactionID: "T0000002",
			SenderID:      "ccc",
			ReceiverID:    "ddd",
			ReceiverType:  domain.ReceiverTypeUser,
			Amount:        42.5,
			Timestamp:     ts,
			DeviceID:      "D654321",
			Location:      "L002",
			Phone:         "P222222",
			Email:         "user2000@mail.com",
		},
	}

	require.NoError(t, repo.LoadBatch(context.Background(), records))

	writes := mem.WriteCalls()
	require.Len(t, writes, 1)

	query := writes[0].Query
	// The receiver label flip is conditional and one-way, and transaction
	// edge properties only exist on first creation.
	assert.Contains(t, query, "UNWIND $rows")
	assert.Contains(t, query, "ON CREATE SET t:User")
	assert.Contains(t, query, "SET t:Merchant REMOVE t:User")
	assert.Contains(t, query, "TRANSACTS_WITH {txid: r.transaction_id}")
	assert.Contains(t, query, "ON CREATE SET\n    x.amount")

	rows, ok := writes[0].Params["rows"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "T0000001", rows[0]["transaction_id"])
	assert.Equal(t, "merchant", rows[0]["receiver_type"])
	assert.Equal(t, 181.0, rows[0]["amount"])
	assert.Equal(t, "2025-01-01T05:00:00", rows[0]["timestamp"])
	assert.Equal(t, 1, rows[0]["label"])
	assert.Equal(t, "user", rows[1]["receiver_type"])
}

func TestLoadBatchEmptyIsNoop(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	require.NoError(t, repo.LoadBatch(context.Background(), nil))
	assert.Empty(t, mem.WriteCalls())
}

func TestLoadBatchRejectsMissingIdentities(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.LoadBatch(context.Background(), []domain.Record{{TransactionID: "T1"}})
	require.Error(t, err)
	assert.Empty(t, mem.WriteCalls())
}

func TestLoadBatchPropagatesClientError(t *testing.T) {
	boom := errors.New("connection reset")
	mem := graph.NewMemoryClient().WithError(boom)
	repo := New(mem)

	err := repo.LoadBatch(context.Background(), []domain.Record{
		{TransactionID: "T1", SenderID: "a", ReceiverID: "b"},
	})
	assert.ErrorIs(t, err, boom)
}

func TestFetchUserFeatures(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubResult("coalesce(u.pr, 0.0)", graph.Result{Records: []graph.Record{
		{"user": "aaa", "degree": int64(4), "triangles": int64(1), "community": int64(7), "pr": 0.21, "coUsers": int64(3)},
		{"user": "bbb", "degree": nil, "triangles": nil, "community": int64(-1), "pr": nil, "coUsers": nil},
	}})
	repo := New(mem)

	features, err := repo.FetchUserFeatures(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, domain.UserFeatures{
		UserID: "aaa", Degree: 4, Triangles: 1, Community: 7, PageRank: 0.21, CoUsers: 3,
	}, features[0])
	// Unset properties default to zero values.
	assert.Equal(t, domain.UserFeatures{
		UserID: "bbb", Community: -1,
	}, features[1])
}

func TestWriteRiskFlagsBatches(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	assessments := make([]domain.RiskAssessment, 5)
	for i := range assessments {
		assessments[i] = domain.RiskAssessment{UserID: "u", Suspicious: true}
	}

	require.NoError(t, repo.WriteRiskFlags(context.Background(), assessments, 2))

	writes := mem.WriteCalls()
	require.Len(t, writes, 3)
	for _, call := range writes {
		assert.Contains(t, call.Query, "SET u.suspicious = r.suspicious")
	}
	rows := writes[2].Params["rows"].([]map[string]any)
	assert.Len(t, rows, 1)
}

func TestFetchFlaggedUsers(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubResult("WHERE u.suspicious = true OR u.highRisk = true", graph.Result{Records: []graph.Record{
		{"user": "aaa", "highRisk": true, "coUsers": int64(4), "pr": 0.5, "degree": int64(9), "triangles": int64(2), "community": int64(3)},
	}})
	repo := New(mem)

	rows, err := repo.FetchFlaggedUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.RiskRow{
		UserID: "aaa", HighRisk: true, CoUsers: 4, PageRank: 0.5, Degree: 9, Triangles: 2, Community: 3,
	}, rows[0])
}

func TestComputeCoUsersQuery(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	require.NoError(t, repo.ComputeCoUsers(context.Background()))

	writes := mem.WriteCalls()
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0].Query, "USES_DEVICE")
	assert.Contains(t, writes[0].Query, "count(DISTINCT v) AS coUsers")
}
