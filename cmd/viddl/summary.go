package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"viddl/internal/workflow"
)

func renderResultsTable(summary workflow.Summary) string {
	rows := make([][]string, 0, len(summary.Results)+len(summary.Duplicates))
	for _, r := range summary.Results {
		rows = append(rows, []string{r.URL, resultLabel(r), r.Size, resultSize(r), resultDetail(r)})
	}
	for _, url := range summary.Duplicates {
		rows = append(rows, []string{url, "duplicate", "", "", "skipped"})
	}
	return renderTable(
		[]string{"URL", "Status", "Target", "Size", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func resultLabel(r workflow.Result) string {
	if r.Outcome != "" && r.Status == workflow.StatusKept {
		return fmt.Sprintf("%s (%s)", r.Status, r.Outcome)
	}
	return string(r.Status)
}

func resultSize(r workflow.Result) string {
	if r.FinalBits == 0 {
		return ""
	}
	return humanize.Bytes(r.FinalBits / 8)
}

func resultDetail(r workflow.Result) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Path
}
