package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Jobs file validation errors.
var (
	ErrNoJobs            = errors.New("jobs file contains no jobs")
	ErrJobMissingQuery   = errors.New("job query is required")
	ErrJobMissingOutput  = errors.New("job output path is required")
	ErrJobInvalidDate    = errors.New("job date must be YYYYMMDD")
	ErrJobInvalidResults = errors.New("job results must be positive")
	ErrJobDateOrder      = errors.New("job begin_date cannot be after end_date")
)

// Job describes one Article Search collection run.
type Job struct {
	Name      string `yaml:"name"`
	Query     string `yaml:"query"`
	BeginDate string `yaml:"begin_date"`
	EndDate   string `yaml:"end_date"`
	Results   int    `yaml:"results"`
	Output    string `yaml:"output"`
}

type jobsFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads and validates a YAML jobs file.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var parsed jobsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse jobs file: %w", err)
	}

	if len(parsed.Jobs) == 0 {
		return nil, ErrNoJobs
	}

	for i := range parsed.Jobs {
		job := &parsed.Jobs[i]
		if job.Query == "" {
			return nil, fmt.Errorf("%w (job %d)", ErrJobMissingQuery, i)
		}
		if job.Output == "" {
			return nil, fmt.Errorf("%w (job %d)", ErrJobMissingOutput, i)
		}
		if job.Results <= 0 {
			return nil, fmt.Errorf("%w (job %d)", ErrJobInvalidResults, i)
		}
		if err := validateDate(job.BeginDate); err != nil {
			return nil, fmt.Errorf("%w (job %d, begin_date %q)", err, i, job.BeginDate)
		}
		if err := validateDate(job.EndDate); err != nil {
			return nil, fmt.Errorf("%w (job %d, end_date %q)", err, i, job.EndDate)
		}
		if job.BeginDate != "" && job.EndDate != "" && job.BeginDate > job.EndDate {
			return nil, fmt.Errorf("%w (job %d)", ErrJobDateOrder, i)
		}
		if job.Name == "" {
			job.Name = job.Query
		}
	}

	return parsed.Jobs, nil
}

func validateDate(raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := time.Parse("20060102", raw); err != nil {
		return ErrJobInvalidDate
	}
	return nil
}
