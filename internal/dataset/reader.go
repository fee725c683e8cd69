package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/kelvinosei/momograph/internal/domain"
)

// ErrMissingInput indicates a pipeline input file does not exist, usually
// because the upstream stage has not been run yet.
var ErrMissingInput = errors.New("input file not found")

// Raw source columns consumed from the mobile-money export. Extra columns in
// the file are ignored.
var rawColumns = []string{"step", "type", "amount", "nameOrig", "nameDest", "isFraud"}

// ReadRaw loads the raw transaction export. Rows whose step or amount fail to
// parse are dropped silently; structural problems (missing file, missing
// columns) are errors.
func ReadRaw(path string) ([]domain.RawTransaction, error) {
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
	cols, err := columnIndex(header, rawColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rows []domain.RawTransaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		step, err := strconv.Atoi(field(record, cols["step"]))
		if err != nil {
			continue
		}
		amount, err := strconv.ParseFloat(field(record, cols["amount"]), 64)
		if err != nil {
			continue
		}
		isFraud, err := strconv.Atoi(field(record, cols["isFraud"]))
		if err != nil {
			isFraud = 0
		}

		rows = append(rows, domain.RawTransaction{
			Step:     step,
			Type:     field(record, cols["type"]),
			Amount:   amount,
			NameOrig: field(record, cols["nameOrig"]),
			NameDest: field(record, cols["nameDest"]),
			IsFraud:  isFraud,
		})
	}

	return rows, nil
}

// Sample draws n rows without replacement using the provided seed. When the
// input already fits the cap the rows are returned unchanged.
func Sample(rows []domain.RawTransaction, n int, seed int64) []domain.RawTransaction {
	if n <= 0 || len(rows) <= n {
		return rows
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(rows))

	sampled := make([]domain.RawTransaction, 0, n)
	for _, idx := range perm[:n] {
		sampled = append(sampled, rows[idx])
	}
	return sampled
}

func columnIndex(header []string, wanted []string) (map[string]int, error) {
	index := make(map[string]int, len(wanted))
	for i, name := range header {
		index[name] = i
	}
	result := make(map[string]int, len(wanted))
	for _, name := range wanted {
		idx, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		result[name] = idx
	}
	return result, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
