package db

import (
	"database/sql"
	"fmt"
)

// DetailedResult contains all joined information for a result
type DetailedResult struct {
	ID int64

	// Carrier info
	CarrierSource string
	Width         int
	Height        int

	// Parameters
	ScanLimit      int
	AbortThreshold int

	// Payload info
	ArmorScheme   string
	TransportSize int
	PayloadSize   int

	// Metrics
	CapacityRatio float64
	CapacityBytes int
	Probability   float64
	Recovered     bool
	Success       bool
	PSNR          float64
	DurationMS    float64

	// Paths
	OriginalImagePath string
	EmbedImagePath    string
}

// QueryDetailed executes a query on the results_detailed view
func (d *DB) QueryDetailed(query string, args ...interface{}) ([]*DetailedResult, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var results []*DetailedResult
	for rows.Next() {
		var r DetailedResult
		err := rows.Scan(
			&r.ID,
			&r.CarrierSource,
			&r.Width,
			&r.Height,
			&r.ScanLimit,
			&r.AbortThreshold,
			&r.ArmorScheme,
			&r.TransportSize,
			&r.PayloadSize,
			&r.CapacityRatio,
			&r.CapacityBytes,
			&r.Probability,
			&r.Recovered,
			&r.Success,
			&r.PSNR,
			&r.DurationMS,
			&r.OriginalImagePath,
			&r.EmbedImagePath,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// ListDetailed returns every result with its joined dimensions
func (d *DB) ListDetailed() ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		ORDER BY id
	`)
}

// GetSuccessfulResults returns successful results with PSNR above threshold
func (d *DB) GetSuccessfulResults(minPSNR float64) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE success = 1 AND psnr >= ?
		ORDER BY psnr DESC
	`, minPSNR)
}

// GetResultsByCapacityRatio returns results within capacity ratio range
func (d *DB) GetResultsByCapacityRatio(minRatio, maxRatio float64) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE capacity_ratio BETWEEN ? AND ?
		ORDER BY capacity_ratio
	`, minRatio, maxRatio)
}

// GetResultsByCarrierSize returns results for specific carrier dimensions
func (d *DB) GetResultsByCarrierSize(width, height int) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE width = ? AND height = ?
		ORDER BY success DESC, psnr DESC
	`, width, height)
}

// GetResultsByScheme returns results for a specific armor scheme
func (d *DB) GetResultsByScheme(scheme string) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE armor_scheme = ?
		ORDER BY success DESC, psnr DESC
	`, scheme)
}

// SchemeStats holds statistics for a scheme and scan parameter combination
type SchemeStats struct {
	ArmorScheme    string
	ScanLimit      int
	AbortThreshold int
	TotalTests     int
	Successes      int
	SuccessRate    float64
	AvgPSNR        float64
	AvgProbability float64
}

// GetBestSchemes returns scheme and scan combinations with best success rate
func (d *DB) GetBestSchemes(minSuccessRate float64) ([]*SchemeStats, error) {
	rows, err := d.db.Query(`
		SELECT
			armor_scheme, scan_limit, abort_threshold,
			COUNT(*) as total_tests,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) as successes,
			AVG(CASE WHEN success THEN 1.0 ELSE 0.0 END) as success_rate,
			AVG(psnr) as avg_psnr,
			AVG(probability) as avg_probability
		FROM results_detailed
		GROUP BY armor_scheme, scan_limit, abort_threshold
		HAVING success_rate >= ?
		ORDER BY success_rate DESC, avg_psnr DESC
	`, minSuccessRate)
	if err != nil {
		return nil, fmt.Errorf("failed to query best schemes: %w", err)
	}
	defer rows.Close()

	var stats []*SchemeStats
	for rows.Next() {
		var s SchemeStats
		err := rows.Scan(
			&s.ArmorScheme, &s.ScanLimit, &s.AbortThreshold,
			&s.TotalTests, &s.Successes, &s.SuccessRate,
			&s.AvgPSNR, &s.AvgProbability,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// CarrierSizeStats holds statistics for a carrier size
type CarrierSizeStats struct {
	Width          int
	Height         int
	TotalTests     int
	Successes      int
	SuccessRate    float64
	AvgPSNR        float64
	AvgProbability float64
}

// GetCarrierSizeStats returns statistics grouped by carrier size
func (d *DB) GetCarrierSizeStats() ([]*CarrierSizeStats, error) {
	rows, err := d.db.Query(`
		SELECT
			width, height,
			COUNT(*) as total_tests,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) as successes,
			AVG(CASE WHEN success THEN 1.0 ELSE 0.0 END) as success_rate,
			AVG(psnr) as avg_psnr,
			AVG(probability) as avg_probability
		FROM results_detailed
		GROUP BY width, height
		ORDER BY width, height
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query carrier size stats: %w", err)
	}
	defer rows.Close()

	var stats []*CarrierSizeStats
	for rows.Next() {
		var s CarrierSizeStats
		err := rows.Scan(
			&s.Width, &s.Height,
			&s.TotalTests, &s.Successes, &s.SuccessRate,
			&s.AvgPSNR, &s.AvgProbability,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// CapacityRatioStats holds statistics for a capacity ratio range
type CapacityRatioStats struct {
	CapacityRange string
	TotalTests    int
	Successes     int
	SuccessRate   float64
	AvgPSNR       float64
}

// GetCapacityRatioStats returns statistics grouped by capacity ratio ranges
func (d *DB) GetCapacityRatioStats() ([]*CapacityRatioStats, error) {
	rows, err := d.db.Query(`
		SELECT
			CASE
				WHEN capacity_ratio < 0.1 THEN '0-10%'
				WHEN capacity_ratio < 0.25 THEN '10-25%'
				WHEN capacity_ratio < 0.5 THEN '25-50%'
				WHEN capacity_ratio < 0.75 THEN '50-75%'
				ELSE '75-100%'
			END as range,
			COUNT(*) as total_tests,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) as successes,
			AVG(CASE WHEN success THEN 1.0 ELSE 0.0 END) as success_rate,
			AVG(psnr) as avg_psnr
		FROM results_detailed
		GROUP BY range
		ORDER BY
			CASE range
				WHEN '0-10%' THEN 1
				WHEN '10-25%' THEN 2
				WHEN '25-50%' THEN 3
				WHEN '50-75%' THEN 4
				ELSE 5
			END
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query capacity ratio stats: %w", err)
	}
	defer rows.Close()

	var stats []*CapacityRatioStats
	for rows.Next() {
		var s CapacityRatioStats
		err := rows.Scan(
			&s.CapacityRange,
			&s.TotalTests, &s.Successes, &s.SuccessRate,
			&s.AvgPSNR,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// ExecuteRawQuery executes a raw SQL query and returns rows
func (d *DB) ExecuteRawQuery(query string, args ...interface{}) (*sql.Rows, error) {
	return d.db.Query(query, args...)
}
