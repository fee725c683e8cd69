package dataset

import (
	"fmt"
	"time"

	"github.com/kelvinosei/momograph/internal/domain"
	"github.com/kelvinosei/momograph/internal/identity"
)

// TimestampLayout is the wire format for record timestamps in the enriched CSV.
const TimestampLayout = "2006-01-02T15:04:05"

// BuildRecords anonymizes identities and derives the core transaction fields.
// Transaction ids are assigned from the input position, so rows dropped for a
// missing identity or non-positive amount leave gaps rather than renumbering
// the survivors. Timestamps derive from the hour offset plus the start epoch.
func BuildRecords(rows []domain.RawTransaction, start time.Time) []domain.Record {
	records := make([]domain.Record, 0, len(rows))
	for i, row := range rows {
		if row.NameOrig == "" || row.NameDest == "" {
			continue
		}
		if !(row.Amount > 0) {
			continue
		}

		records = append(records, domain.Record{
			TransactionID: fmt.Sprintf("T%07d", i),
			SenderID:      identity.HashID(row.NameOrig),
			ReceiverID:    identity.HashID(row.NameDest),
			Amount:        row.Amount,
			Timestamp:     start.Add(time.Duration(row.Step) * time.Hour),
			Label:         row.IsFraud,
		})
	}
	return records
}
