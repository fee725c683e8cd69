package domain

import "time"

// Receiver roles. A receiver starts life as a user and may be promoted to
// merchant exactly once; the reverse transition never happens.
const (
	ReceiverTypeUser     = "user"
	ReceiverTypeMerchant = "merchant"
)

// RawTransaction is one row of the source mobile-money export before any
// anonymization or enrichment.
type RawTransaction struct {
	Step     int
	Type     string
	Amount   float64
	NameOrig string
	NameDest string
	IsFraud  int
}

// Record is an enriched transaction: identities are hashed, shared attributes
// are assigned, and the receiver role is resolved.
type Record struct {
	TransactionID string
	SenderID      string
	ReceiverID    string
	ReceiverType  string
	Amount        float64
	Timestamp     time.Time
	DeviceID      string
	Location      string
	Phone         string
	Email         string
	Label         int
}

// IsMerchant reports whether the record declares its receiver a merchant.
func (r Record) IsMerchant() bool {
	return r.ReceiverType == ReceiverTypeMerchant
}
