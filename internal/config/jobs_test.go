package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nytarchive/internal/config"
)

func writeJobs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJobs(t *testing.T) {
	path := writeJobs(t, `
jobs:
  - name: historical immigration
    query: immigration
    begin_date: "18510101"
    end_date: "20250501"
    results: 1000
    output: historical_immigration_articles.csv
  - query: climate
    results: 50
    output: climate.csv
`)

	jobs, err := config.LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	require.Equal(t, "historical immigration", jobs[0].Name)
	require.Equal(t, "immigration", jobs[0].Query)
	require.Equal(t, "18510101", jobs[0].BeginDate)
	require.Equal(t, "20250501", jobs[0].EndDate)
	require.Equal(t, 1000, jobs[0].Results)
	require.Equal(t, "historical_immigration_articles.csv", jobs[0].Output)

	// Name falls back to the query.
	require.Equal(t, "climate", jobs[1].Name)
	require.Empty(t, jobs[1].BeginDate)
}

func TestLoadJobsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty", content: "jobs: []", wantErr: config.ErrNoJobs},
		{
			name:    "missing query",
			content: "jobs:\n  - results: 10\n    output: out.csv",
			wantErr: config.ErrJobMissingQuery,
		},
		{
			name:    "missing output",
			content: "jobs:\n  - query: q\n    results: 10",
			wantErr: config.ErrJobMissingOutput,
		},
		{
			name:    "bad results",
			content: "jobs:\n  - query: q\n    output: out.csv",
			wantErr: config.ErrJobInvalidResults,
		},
		{
			name:    "bad date",
			content: "jobs:\n  - query: q\n    results: 10\n    output: out.csv\n    begin_date: \"2024-01-01\"",
			wantErr: config.ErrJobInvalidDate,
		},
		{
			name:    "dates out of order",
			content: "jobs:\n  - query: q\n    results: 10\n    output: out.csv\n    begin_date: \"20250101\"\n    end_date: \"20240101\"",
			wantErr: config.ErrJobDateOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadJobs(writeJobs(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadJobsMissingFile(t *testing.T) {
	_, err := config.LoadJobs(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
