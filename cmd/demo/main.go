// Command demo enriches a fixed sample issuer collection against a simulated
// directory and prints the collection before and after. It exists to show the
// worker-pool behavior end to end without any external backends.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"isinhub/internal/audit"
	"isinhub/internal/enrichment"
	"isinhub/internal/isin"
	"isinhub/internal/issuer"
	"isinhub/internal/platform/logger"
	"isinhub/internal/sector"
)

const failingIssuerID = 1007

func main() {
	records := sampleIssuers()

	fmt.Println("before enrichment:")
	printRecords(records)

	service, err := enrichment.NewService(simulatedDirectory(),
		enrichment.WithAuditPublisher(audit.NewMemoryPublisher()),
		enrichment.WithLogger(logger.New()),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "service construction failed:", err)
		os.Exit(1)
	}

	start := time.Now()
	report, err := service.Run(context.Background(),
		records,
		sector.Context{sector.LabelProvincesAndMunicipalities},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "run failed:", err)
		os.Exit(1)
	}

	fmt.Println("\nafter enrichment:")
	printRecords(records)

	fmt.Printf("\nrun %s: %d succeeded, %d failed in %s (wall clock %s)\n",
		report.RunID,
		len(report.Succeeded()),
		len(report.Failed()),
		report.Duration().Round(time.Millisecond),
		time.Since(start).Round(time.Millisecond),
	)
	for _, outcome := range report.Failed() {
		fmt.Printf("  issuer %d failed: %v\n", outcome.IssuerID, outcome.Err)
	}
}

// simulatedDirectory behaves like the external ISIN directory: each call
// takes a few tens of milliseconds, and one issuer always errors so the
// failure isolation path is visible in the output.
func simulatedDirectory() isin.Fetcher {
	return isin.FetcherFunc(func(ctx context.Context, issuerID int64) ([]string, error) {
		delay := 30*time.Millisecond + time.Duration(rand.Intn(40))*time.Millisecond
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		if issuerID == failingIssuerID {
			return nil, isin.NewFetchError(isin.ErrorDirectoryOutage, issuerID,
				"directory returned status 503", nil)
		}

		return []string{
			fmt.Sprintf("US%09d5", issuerID*37),
			fmt.Sprintf("CA%09d2", issuerID*53),
		}, nil
	})
}

func sampleIssuers() []*issuer.IssuerRecord {
	names := []string{
		"Aurora Transit Authority",
		"Beaumont Water District",
		"Cascadia Power Cooperative",
		"Dunmore County Schools",
		"Eastgate Harbor Commission",
		"Fairview Municipal Utility",
		"Glenrock Housing Agency",
		"Halston Regional Health",
		"Ironbridge Toll Roads",
		"Juniper Valley Parks",
		"Kestrel Bay Airport",
	}

	records := make([]*issuer.IssuerRecord, 0, len(names))
	for i, name := range names {
		records = append(records, &issuer.IssuerRecord{
			ID:   int64(1000 + i),
			Name: name,
		})
	}
	return records
}

func printRecords(records []*issuer.IssuerRecord) {
	for _, r := range records {
		status := "pending"
		if r.Enriched() {
			status = "enriched"
		}
		fmt.Printf("  %d  %-28s type=%-12s isins=%v  [%s]\n",
			r.ID, r.Name, orDash(string(r.Type)), r.ISINs, status)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
