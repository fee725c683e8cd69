package risk

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/kelvinosei/momograph/internal/domain"
)

// DefaultExportLimit caps the exported risk table.
const DefaultExportLimit = 1000

var exportColumns = []string{"user", "highRisk", "coUsers", "pr", "degree", "triangles", "community"}

// Rank sorts flagged users by (highRisk desc, coUsers desc, pr desc) and
// truncates to limit. PageRank is rounded to six decimals on the way out so
// the report and the sort key agree. The input slice is not modified.
func Rank(rows []domain.RiskRow, limit int) []domain.RiskRow {
	if limit <= 0 {
		limit = DefaultExportLimit
	}

	ranked := make([]domain.RiskRow, len(rows))
	copy(ranked, rows)
	for i := range ranked {
		ranked[i].PageRank = roundTo(ranked[i].PageRank, 6)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.HighRisk != b.HighRisk {
			return a.HighRisk
		}
		if a.CoUsers != b.CoUsers {
			return a.CoUsers > b.CoUsers
		}
		return a.PageRank > b.PageRank
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// WriteCSV serializes the ranked risk table, creating parent directories as
// needed.
func WriteCSV(path string, rows []domain.RiskRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(exportColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		out := []string{
			row.UserID,
			strconv.FormatBool(row.HighRisk),
			strconv.Itoa(row.CoUsers),
			strconv.FormatFloat(row.PageRank, 'f', 6, 64),
			strconv.Itoa(row.Degree),
			strconv.Itoa(row.Triangles),
			strconv.FormatInt(row.Community, 10),
		}
		if err := writer.Write(out); err != nil {
			return fmt.Errorf("write row %s: %w", row.UserID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
