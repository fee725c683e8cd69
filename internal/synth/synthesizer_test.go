package synth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinosei/momograph/internal/domain"
)

func testRecords(senders, receivers int) []domain.Record {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	var records []domain.Record
	n := senders
	if receivers > n {
		n = receivers
	}
	for i := 0; i < n; i++ {
		records = append(records, domain.Record{
			TransactionID: fmt.Sprintf("T%07d", i),
			SenderID:      fmt.Sprintf("s%03d", i%senders),
			ReceiverID:    fmt.Sprintf("r%03d", i%receivers),
			Amount:        100,
			Timestamp:     start.Add(time.Duration(i) * time.Hour),
		})
	}
	return records
}

func TestEnrichIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 28

	records := testRecords(40, 40)
	first := New(cfg).Enrich(records)
	second := New(cfg).Enrich(records)
	assert.Equal(t, first, second)
}

func TestEnrichSeedChangesAssignment(t *testing.T) {
	records := testRecords(40, 40)

	a := DefaultConfig()
	a.Seed = 28
	b := DefaultConfig()
	b.Seed = 29

	assert.NotEqual(t, New(a).Enrich(records), New(b).Enrich(records))
}

func TestEnrichAssignsOneValuePerIdentity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	// Every sender appears twice so repeated occurrences must agree.
	records := append(testRecords(25, 25), testRecords(25, 25)...)
	enriched := New(cfg).Enrich(records)
	require.Len(t, enriched, len(records))

	devices := map[string]string{}
	phones := map[string]string{}
	emails := map[string]string{}
	locations := map[string]string{}
	roles := map[string]string{}
	for _, r := range enriched {
		require.NotEmpty(t, r.DeviceID)
		require.NotEmpty(t, r.Phone)
		require.NotEmpty(t, r.Email)
		require.NotEmpty(t, r.Location)
		require.NotEmpty(t, r.ReceiverType)

		assertStable(t, devices, r.SenderID, r.DeviceID)
		assertStable(t, phones, r.SenderID, r.Phone)
		assertStable(t, emails, r.SenderID, r.Email)
		assertStable(t, locations, r.SenderID, r.Location)
		assertStable(t, roles, r.ReceiverID, r.ReceiverType)
	}
}

func assertStable(t *testing.T, seen map[string]string, key, value string) {
	t.Helper()
	if prev, ok := seen[key]; ok {
		assert.Equal(t, prev, value, "identity %s changed value", key)
		return
	}
	seen[key] = value
}

func TestEnrichSharedGroupsHaveAtLeastTwoMembers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	cfg.DeviceShareRate = 1.0
	cfg.DeviceMinGroup = 2
	cfg.DeviceMaxGroup = 2

	enriched := New(cfg).Enrich(testRecords(10, 10))

	bySender := map[string]string{}
	for _, r := range enriched {
		bySender[r.SenderID] = r.DeviceID
	}
	counts := map[string]int{}
	for _, device := range bySender {
		counts[device]++
	}
	// Share rate 1 with fixed group size 2 over an even sender count pairs
	// everyone up.
	for device, count := range counts {
		assert.Equal(t, 2, count, "device %s", device)
	}
}

func TestEnrichMerchantSample(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 28
	cfg.MerchantRate = 0.16

	enriched := New(cfg).Enrich(testRecords(50, 50))

	merchants := map[string]struct{}{}
	receivers := map[string]struct{}{}
	for _, r := range enriched {
		receivers[r.ReceiverID] = struct{}{}
		if r.IsMerchant() {
			merchants[r.ReceiverID] = struct{}{}
		}
	}

	// round(50 * 0.16) = 8
	assert.Len(t, merchants, 8)
	assert.Len(t, receivers, 50)
	for m := range merchants {
		assert.Contains(t, receivers, m)
	}
}

func TestEnrichMarksAtLeastOneMerchant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 28
	cfg.MerchantRate = 0.001

	enriched := New(cfg).Enrich(testRecords(5, 5))

	var merchants int
	for _, r := range enriched {
		if r.IsMerchant() {
			merchants++
		}
	}
	assert.GreaterOrEqual(t, merchants, 1)
}

func TestEnrichLocationsComeFromPool(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.LocationCount = 5

	enriched := New(cfg).Enrich(testRecords(30, 30))

	valid := map[string]struct{}{}
	for i := 1; i <= cfg.LocationCount; i++ {
		valid[fmt.Sprintf("L%03d", i)] = struct{}{}
	}
	for _, r := range enriched {
		assert.Contains(t, valid, r.Location)
	}
}

func TestEnrichPreservesRowCountAndOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 28

	records := testRecords(20, 20)
	enriched := New(cfg).Enrich(records)
	require.Len(t, enriched, len(records))
	for i := range records {
		assert.Equal(t, records[i].TransactionID, enriched[i].TransactionID)
		assert.Equal(t, records[i].Amount, enriched[i].Amount)
		assert.Equal(t, records[i].Timestamp, enriched[i].Timestamp)
	}
}
