package main

import (
	"exp/internal/db"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// crStats holds statistics for a capacity ratio bucket
type crStats struct {
	ratio          float64
	avgPSNR        float64
	recoveryRate   float64
	avgProbability float64
	sampleCount    int
}

// qualityMain analyzes carrier degradation against recovery rate
func qualityMain(outputDir string) {
	results, err := database.ListDetailed()
	if err != nil {
		log.Fatalf("Failed to load results: %v", err)
	}
	if len(results) == 0 {
		log.Fatal("No results found in database. Run the sweep first.")
	}

	log.Printf("Loaded %d test results from the database\n", len(results))
	log.Printf("Aggregating PSNR per capacity ratio...\n")

	// Group results by capacity ratio bucket
	crGroups := make(map[float64][]*db.DetailedResult)
	for _, r := range results {
		bucket := math.Round(r.CapacityRatio*50) / 50
		crGroups[bucket] = append(crGroups[bucket], r)
	}

	// Calculate PSNR and recovery rate for each bucket
	var stats []crStats
	for bucket, groupResults := range crGroups {
		var totalPSNR float64
		var totalProbability float64
		var successCount int
		var validPSNRCount int

		for _, r := range groupResults {
			if r.PSNR > 0 {
				totalPSNR += r.PSNR
				validPSNRCount++
			}

			if r.Success {
				successCount++
			}
			totalProbability += r.Probability
		}

		if validPSNRCount == 0 {
			log.Printf("Warning: No valid PSNR data for capacity ratio %.2f\n", bucket)
			continue
		}

		stats = append(stats, crStats{
			ratio:          bucket,
			avgPSNR:        totalPSNR / float64(validPSNRCount),
			recoveryRate:   float64(successCount) / float64(len(groupResults)) * 100,
			avgProbability: totalProbability / float64(len(groupResults)) * 100,
			sampleCount:    len(groupResults),
		})
	}

	// Sort by ratio ascending
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ratio < stats[j].ratio
	})

	log.Printf("Aggregated %d capacity ratio buckets\n", len(stats))

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate visualization
	outputPath := filepath.Join(outputDir, "quality_psnr_vs_recovery.html")
	if err := generateQualityChart(stats, outputPath); err != nil {
		log.Fatalf("Failed to generate quality chart: %v", err)
	}

	log.Printf("Generated: %s\n", outputPath)

	// Print summary table
	printQualityTable(stats)

	log.Printf("\nVisualization saved to: %s\n", outputDir)
}

// generateQualityChart creates a dual-axis line chart with PSNR and Recovery Rate
func generateQualityChart(stats []crStats, outputPath string) error {
	line := charts.NewLine()

	// Prepare X-axis data (capacity ratio buckets)
	var xAxisData []string
	var psnrData []opts.LineData
	var recoveryData []opts.LineData
	var probabilityData []opts.LineData

	for _, s := range stats {
		xAxisData = append(xAxisData, fmt.Sprintf("%.2f", s.ratio))

		psnrData = append(psnrData, opts.LineData{
			Value: s.avgPSNR,
			Name:  fmt.Sprintf("CR=%.2f: PSNR=%.2f (n=%d)", s.ratio, s.avgPSNR, s.sampleCount),
		})
		recoveryData = append(recoveryData, opts.LineData{
			Value: s.recoveryRate,
			Name:  fmt.Sprintf("CR=%.2f: Recovery=%.1f%% (n=%d)", s.ratio, s.recoveryRate, s.sampleCount),
		})
		probabilityData = append(probabilityData, opts.LineData{
			Value: s.avgProbability,
			Name:  fmt.Sprintf("CR=%.2f: Detect=%.1f%% (n=%d)", s.ratio, s.avgProbability, s.sampleCount),
		})
	}

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Carrier Quality (PSNR) vs Recovery Rate by Capacity Ratio",
			Subtitle: "Correlation between PSNR, detectability and message recovery rate",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "CapacityRatio",
			Type: "category",
			Data: xAxisData,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "PSNR (dB)",
			Type: "value",
			Min:  40,
			Max:  90,
			AxisLabel: &opts.AxisLabel{
				Formatter: "{value}",
			},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "5%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	// Set X-axis for line chart
	line.SetXAxis(xAxisData)

	// Add PSNR series (left Y-axis)
	line.AddSeries("PSNR (dB)", psnrData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(true),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	// Extend Y-axis for dual axis (must be done before adding the second series)
	line.ExtendYAxis(opts.YAxis{
		Name: "Recovery Rate (%)",
		Type: "value",
		Min:  0,
		Max:  100,
		AxisLabel: &opts.AxisLabel{
			Formatter: "{value}%",
		},
	})

	// Add Recovery Rate series (right Y-axis)
	line.AddSeries("Recovery Rate (%)", recoveryData,
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			YAxisIndex: 1, // Bind to the second Y-axis (right)
		}),
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)
	// Add Detection Probability series (right Y-axis)
	line.AddSeries("Detection Probability (%)", probabilityData,
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			YAxisIndex: 1, // Bind to the second Y-axis (right)
		}),
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}

// printQualityTable prints a summary table of PSNR and recovery rate
func printQualityTable(stats []crStats) {
	log.Printf("\n=== Carrier Quality Analysis ===\n")
	log.Printf("%-8s | %8s | %10s | %10s | %8s\n", "CR", "PSNR", "Recovery%%", "Detect%%", "Samples")
	log.Printf("%s\n", "---------+----------+------------+------------+----------")

	for _, s := range stats {
		log.Printf("%8.2f | %8.2f | %9.1f%% | %9.1f%% | %8d\n",
			s.ratio, s.avgPSNR, s.recoveryRate, s.avgProbability, s.sampleCount)
	}

	// Find optimal capacity ratio (highest recovery rate with PSNR >= 50dB)
	var optimal *crStats
	for i := range stats {
		if stats[i].avgPSNR >= 50 {
			if optimal == nil || stats[i].recoveryRate > optimal.recoveryRate {
				optimal = &stats[i]
			}
		}
	}

	if optimal != nil {
		log.Printf("\n=== Optimal Capacity Ratio (PSNR >= 50dB) ===\n")
		log.Printf("CR=%.2f: PSNR=%.2f, Recovery Rate=%.1f%% (n=%d)\n",
			optimal.ratio, optimal.avgPSNR, optimal.recoveryRate, optimal.sampleCount)
	}

	log.Printf("\n")
}
