package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"safe-rm/internal/exitcodes"
	"safe-rm/internal/history"
)

func main() {
	dbPath := flag.String("db", "/var/lib/safe-rm/history.db", "Path to history database")
	recent := flag.Int("recent", 0, "Show N most recent events")
	skipped := flag.Int("skipped", 0, "Show N most recent skipped arguments")
	argPattern := flag.String("arg", "", "Filter by argument pattern (SQL LIKE syntax)")
	stats := flag.Bool("stats", false, "Show invocation statistics")
	days := flag.Int("days", 30, "Number of days for statistics")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	db, err := history.Open(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open database %s: %v", *dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	switch {
	case *stats:
		showStats(db, *days, *jsonOutput)
	case *recent > 0:
		events, err := db.Recent(*recent)
		showEvents(events, err, *jsonOutput)
	case *skipped > 0:
		events, err := db.Skipped(*skipped)
		showEvents(events, err, *jsonOutput)
	case *argPattern != "":
		events, err := db.ByArgument(*argPattern)
		showEvents(events, err, *jsonOutput)
	default:
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  safe-rm-query --recent 10        # Show 10 most recent events")
		fmt.Println("  safe-rm-query --skipped 10       # Show 10 most recent skipped arguments")
		fmt.Println("  safe-rm-query --arg '/etc/%'     # Show events touching /etc")
		fmt.Println("  safe-rm-query --stats            # Show invocation statistics")
		os.Exit(exitcodes.Failure)
	}
}

func showStats(db *history.DB, days int, jsonOutput bool) {
	stats, err := db.GetStats(days)
	if err != nil {
		log.Fatalf("ERROR: Failed to get statistics: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("safe-rm statistics (last %d days)\n", days)
	fmt.Printf("Period: %s to %s\n\n", stats.StartDate.Format("2006-01-02"), stats.EndDate.Format("2006-01-02"))
	fmt.Printf("Total Invocations:      %d\n", stats.TotalRuns)
	fmt.Printf("Total Skipped Args:     %d\n", stats.TotalSkipped)

	if len(stats.ByAction) > 0 {
		fmt.Println("\nBy Action:")
		for action, count := range stats.ByAction {
			fmt.Printf("  %-12s %d\n", action, count)
		}
	}
}

func showEvents(events []history.Event, err error, jsonOutput bool) {
	if err != nil {
		log.Fatalf("ERROR: Failed to query events: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(events, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(events) == 0 {
		fmt.Println("No events found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTimestamp\tAction\tExit\tArgument")
	_, _ = fmt.Fprintln(w, "--\t---------\t------\t----\t--------")

	for _, e := range events {
		exit := "-"
		if e.ExitCode != nil {
			exit = fmt.Sprintf("%d", *e.ExitCode)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, exit, e.Argument)
	}
	_ = w.Flush()
}
