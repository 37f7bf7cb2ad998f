package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Result is one configuration's evaluation outcome as it appears in the
// JSON report.
type Result struct {
	SplitterName string        `json:"splitter_name"`
	SplitterType string        `json:"splitter_type"`
	Error        string        `json:"error,omitempty"`
	Parameters   *Parameters   `json:"parameters,omitempty"`
	Statistics   *Statistics   `json:"statistics,omitempty"`
	TestResults  []QueryResult `json:"test_results,omitempty"`
}

// Parameters echoes the splitter configuration under test.
type Parameters struct {
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
}

// Statistics summarizes the configuration's node set and timing.
// ProcessingTime is in seconds, rounded to two decimals.
type Statistics struct {
	NodeCount      int     `json:"node_count"`
	AvgNodeLength  float64 `json:"avg_node_length"`
	ProcessingTime float64 `json:"processing_time"`
}

// QueryResult is one benchmark query's answer. SourceNodes is 0 when the
// query failed.
type QueryResult struct {
	Query       string `json:"query"`
	Response    string `json:"response"`
	SourceNodes int    `json:"source_nodes"`
}

// SaveResults serializes the ordered result list to path as indented JSON.
func SaveResults(results []Result, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// PrintSummary writes a condensed per-configuration summary.
func PrintSummary(w io.Writer, results []Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Experiment summary")
	fmt.Fprintln(w, "============================================================")

	for _, result := range results {
		if result.Error != "" {
			fmt.Fprintf(w, "FAILED %s: %s\n", result.SplitterName, result.Error)
			continue
		}

		fmt.Fprintf(w, "\n%s (%s)\n", result.SplitterName, result.SplitterType)
		if result.Parameters != nil {
			fmt.Fprintf(w, "  parameters: chunk_size=%d, chunk_overlap=%d\n",
				result.Parameters.ChunkSize, result.Parameters.ChunkOverlap)
		}
		if result.Statistics != nil {
			fmt.Fprintf(w, "  nodes: %d\n", result.Statistics.NodeCount)
			fmt.Fprintf(w, "  avg length: %.2f chars\n", result.Statistics.AvgNodeLength)
			fmt.Fprintf(w, "  duration: %.2fs\n", result.Statistics.ProcessingTime)
		}
	}
}
