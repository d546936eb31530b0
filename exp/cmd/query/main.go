package main

import (
	"encoding/json"
	"exp/internal/db"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	dbPath := flag.String("db", "/tmp/stego-sweep-db/sweep_results.db", "Path to database file")
	queryType := flag.String("query", "stats", "Query type: stats, best-schemes, carrier-sizes, capacity-ratios, successful, raw")
	minPSNR := flag.Float64("min-psnr", 50.0, "Minimum PSNR for successful results")
	minSuccessRate := flag.Float64("min-success", 0.8, "Minimum success rate for best schemes")
	rawSQL := flag.String("sql", "", "Raw SQL query to execute")

	flag.Parse()

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	switch *queryType {
	case "stats":
		count, err := database.CountResults()
		if err != nil {
			log.Fatalf("Failed to count results: %v", err)
		}
		fmt.Printf("Total results: %d\n", count)

	case "best-schemes":
		stats, err := database.GetBestSchemes(*minSuccessRate)
		if err != nil {
			log.Fatalf("Failed to get best schemes: %v", err)
		}
		printJSON(stats)

	case "carrier-sizes":
		stats, err := database.GetCarrierSizeStats()
		if err != nil {
			log.Fatalf("Failed to get carrier size stats: %v", err)
		}
		printJSON(stats)

	case "capacity-ratios":
		stats, err := database.GetCapacityRatioStats()
		if err != nil {
			log.Fatalf("Failed to get capacity ratio stats: %v", err)
		}
		printJSON(stats)

	case "successful":
		results, err := database.GetSuccessfulResults(*minPSNR)
		if err != nil {
			log.Fatalf("Failed to get successful results: %v", err)
		}
		printJSON(results)

	case "raw":
		if *rawSQL == "" {
			log.Fatal("Please provide SQL query with -sql flag")
		}
		rows, err := database.ExecuteRawQuery(*rawSQL)
		if err != nil {
			log.Fatalf("Failed to execute query: %v", err)
		}
		defer rows.Close()

		// Get column names
		cols, err := rows.Columns()
		if err != nil {
			log.Fatalf("Failed to get columns: %v", err)
		}

		// Print results
		fmt.Println("Columns:", cols)
		for rows.Next() {
			// Create slice for scanning
			values := make([]interface{}, len(cols))
			valuePtrs := make([]interface{}, len(cols))
			for i := range values {
				valuePtrs[i] = &values[i]
			}

			if err := rows.Scan(valuePtrs...); err != nil {
				log.Fatalf("Failed to scan row: %v", err)
			}

			// Print row
			for i, col := range cols {
				fmt.Printf("%s: %v\n", col, values[i])
			}
			fmt.Println("---")
		}

	default:
		log.Fatalf("Unknown query type: %s", *queryType)
	}
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatalf("Failed to encode JSON: %v", err)
	}
}
