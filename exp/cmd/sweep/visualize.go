package main

import (
	"exp/internal/db"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func visualizeMain(outputDir string) {
	results, err := database.ListDetailed()
	if err != nil {
		log.Fatalf("Failed to load results: %v", err)
	}
	if len(results) == 0 {
		log.Fatal("No results found in database. Run the sweep first.")
	}

	log.Printf("Loaded %d test results from the database\n", len(results))

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate visualizations
	log.Printf("Generating visualizations...\n")

	// 1. Scatter plot: CapacityRatio vs Recovery Rate
	scatterPath := filepath.Join(outputDir, "scatter_capacity_vs_recovery.html")
	if err := generateScatterPlot(results, scatterPath); err != nil {
		log.Printf("Failed to generate scatter plot: %v\n", err)
	} else {
		log.Printf("Generated: %s\n", scatterPath)
	}

	// 2. Heatmap: Payload size vs Carrier size
	heatmapPath := filepath.Join(outputDir, "heatmap_payload_carrier.html")
	if err := generateHeatmap(results, heatmapPath); err != nil {
		log.Printf("Failed to generate heatmap: %v\n", err)
	} else {
		log.Printf("Generated: %s\n", heatmapPath)
	}

	log.Printf("\nAll visualizations saved to: %s\n", outputDir)
}

// generateScatterPlot creates a scatter plot of CapacityRatio vs Recovery Rate
// Each point is one armor scheme at one capacity ratio
func generateScatterPlot(results []*db.DetailedResult, outputPath string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{
			Name: "CapacityRatio",
			Type: "value",
			Min:  0,
			Max:  1,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Recovery Rate (%)",
			NameLocation: "start",
			Type:         "value",
			Min:          0,
			Max:          100,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:     opts.Bool(true),
			Trigger:  "item",
			Position: "bottom",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:   "slider",
			Start:  0,
			End:    100,
			Orient: "vertical",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:   "slider",
			Start:  0,
			End:    100,
			Orient: "horizontal",
		}),
	)

	resultsBySchemeCR := make(map[string]map[string][]*db.DetailedResult)
	for _, r := range results {
		schemeKey := fmt.Sprintf("Armor=%s,Scan=%d", r.ArmorScheme, r.ScanLimit)
		cr := fmt.Sprintf("%.2f", r.CapacityRatio)
		if _, exists := resultsBySchemeCR[schemeKey]; !exists {
			resultsBySchemeCR[schemeKey] = make(map[string][]*db.DetailedResult)
		}
		resultsBySchemeCR[schemeKey][cr] = append(resultsBySchemeCR[schemeKey][cr], r)
	}

	// Group by scheme for series
	schemeGroups := make(map[string][]opts.ScatterData)
	for schemeKey, r := range resultsBySchemeCR {
		for cr, rs := range r {
			var successCount int
			for _, res := range rs {
				if res.Success {
					successCount++
				}
			}
			successRate := float64(successCount) / float64(len(rs)) * 100
			schemeGroups[schemeKey] = append(schemeGroups[schemeKey], opts.ScatterData{
				Value:      []any{cr, successRate},
				Symbol:     "circle",
				SymbolSize: 10,
				Name:       fmt.Sprintf("%s,CR=%s,Sample=%d", schemeKey, cr, len(rs)),
			})
		}
	}

	// Sort keys for consistent legend order
	var schemeKeys []string
	for k := range schemeGroups {
		schemeKeys = append(schemeKeys, k)
	}
	sort.Strings(schemeKeys)

	for _, key := range schemeKeys {
		scatter.AddSeries(key, schemeGroups[key])
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// Print resultsBySchemeCR table
	log.Printf("\n=== Results by Armor and CapacityRatio ===\n")

	// Print header
	log.Printf("%-28s | %6s | %8s | %8s | %8s\n", "Armor/Scan", "CR", "Samples", "AvgPSNR", "Success%")
	log.Printf("%s\n", "-----------------------------+--------+----------+----------+----------")

	for _, schemeKey := range schemeKeys {
		crMap := resultsBySchemeCR[schemeKey]

		// Sort CR keys in ascending order
		var crKeys []string
		for cr := range crMap {
			crKeys = append(crKeys, cr)
		}
		sort.Strings(crKeys)

		// Print each CR
		for _, cr := range crKeys {
			rs := crMap[cr]
			var totalPSNR float64
			var successCount int
			for _, r := range rs {
				totalPSNR += r.PSNR
				if r.Success {
					successCount++
				}
			}
			avgPSNR := totalPSNR / float64(len(rs))
			successRate := float64(successCount) / float64(len(rs)) * 100

			log.Printf("%-28s | %6s | %8d | %8.2f | %7.1f%%\n",
				schemeKey, cr, len(rs), avgPSNR, successRate)
		}
	}
	log.Printf("\n")

	return scatter.Render(f)
}

// generateHeatmap creates a heatmap of payload size vs carrier size with recovery rate as intensity
func generateHeatmap(results []*db.DetailedResult, outputPath string) error {
	// Aggregate recovery rate per payload and carrier size
	type cellKey struct {
		payloadSize   int
		width, height int
	}
	cellStats := make(map[cellKey]struct {
		total   int
		success int
	})

	for _, r := range results {
		key := cellKey{r.PayloadSize, r.Width, r.Height}
		stats := cellStats[key]
		stats.total++
		if r.Success {
			stats.success++
		}
		cellStats[key] = stats
	}

	// Extract unique payload and carrier sizes
	payloadSet := make(map[int]bool)
	sizeSet := make(map[[2]int]bool)
	for key := range cellStats {
		payloadSet[key.payloadSize] = true
		sizeSet[[2]int{key.width, key.height}] = true
	}

	var payloadList []int
	var sizeList [][2]int
	for p := range payloadSet {
		payloadList = append(payloadList, p)
	}
	for s := range sizeSet {
		sizeList = append(sizeList, s)
	}
	sort.Ints(payloadList)
	sort.Slice(sizeList, func(i, j int) bool {
		return sizeList[i][0]*sizeList[i][1] < sizeList[j][0]*sizeList[j][1]
	})

	// Convert payload and carrier sizes to string labels
	var xLabels, yLabels []string
	for _, p := range payloadList {
		xLabels = append(xLabels, fmt.Sprintf("%dB", p))
	}
	for _, s := range sizeList {
		yLabels = append(yLabels, fmt.Sprintf("%dx%d", s[0], s[1]))
	}

	// Build heatmap data
	var heatmapData []opts.HeatMapData
	for i, s := range sizeList {
		for j, p := range payloadList {
			key := cellKey{p, s[0], s[1]}
			stats := cellStats[key]
			successRate := 0.0
			if stats.total > 0 {
				successRate = float64(stats.success) / float64(stats.total) * 100
			}
			heatmapData = append(heatmapData, opts.HeatMapData{
				Value: [3]any{j, i, successRate},
			})
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Payload vs Carrier Recovery Heatmap",
			Subtitle: "Recovery rate (%) for each payload and carrier size",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Payload",
			Type:      "category",
			Data:      xLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Carrier",
			Type:      "category",
			Data:      yLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "10%",
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        100,
			Range:      []float32{0, 100},
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#74add1", "#fee090", "#f46d43", "#a50026"}},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	heatmap.AddSeries("Recovery Rate", heatmapData)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return heatmap.Render(f)
}
