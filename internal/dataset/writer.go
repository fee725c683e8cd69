package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelvinosei/momograph/internal/domain"
)

// enrichedColumns is the hand-off contract between the synthesizer and the
// ingestor. Order matters: downstream consumers rely on it.
var enrichedColumns = []string{
	"transaction_id", "sender_id", "receiver_id", "receiver_type",
	"amount", "timestamp", "sender_device_id",
	"sender_location", "sender_phone", "sender_email",
	"label",
}

// WriteRecords serializes enriched records to a CSV at path, creating parent
// directories as needed.
func WriteRecords(path string, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(enrichedColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.TransactionID,
			r.SenderID,
			r.ReceiverID,
			r.ReceiverType,
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			r.Timestamp.Format(TimestampLayout),
			r.DeviceID,
			r.Location,
			r.Phone,
			r.Email,
			strconv.Itoa(r.Label),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", r.TransactionID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// ReadRecords loads an enriched CSV produced by WriteRecords. Rows missing a
// sender or receiver identity, or with unparseable numeric fields, are
// dropped silently; they are filtered here so ingestion never sees them.
func ReadRecords(path string) ([]domain.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cols, err := columnIndex(header, enrichedColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var records []domain.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		senderID := field(row, cols["sender_id"])
		receiverID := field(row, cols["receiver_id"])
		if senderID == "" || receiverID == "" {
			continue
		}
		amount, err := strconv.ParseFloat(field(row, cols["amount"]), 64)
		if err != nil {
			continue
		}
		ts, err := time.Parse(TimestampLayout, field(row, cols["timestamp"]))
		if err != nil {
			continue
		}
		label, err := strconv.Atoi(field(row, cols["label"]))
		if err != nil {
			label = 0
		}

		records = append(records, domain.Record{
			TransactionID: field(row, cols["transaction_id"]),
			SenderID:      senderID,
			ReceiverID:    receiverID,
			ReceiverType:  field(row, cols["receiver_type"]),
			Amount:        amount,
			Timestamp:     ts,
			DeviceID:      field(row, cols["sender_device_id"]),
			Location:      field(row, cols["sender_location"]),
			Phone:         field(row, cols["sender_phone"]),
			Email:         field(row, cols["sender_email"]),
			Label:         label,
		})
	}

	return records, nil
}
