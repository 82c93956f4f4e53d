package upload

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Job is one local file waiting to be uploaded
type Job struct {
	// Path is the file on disk.
	Path string `json:"path"`
	// Name is Path relative to the imported directory and keys the report.
	Name string `json:"name"`
}

// String returns a formatted string representation of the job
func (j Job) String() string {
	return fmt.Sprintf("[%s]", j.Name)
}

// Status is the outcome of a job
type Status int

const (
	StatusUploaded Status = iota
	StatusFailed
	StatusSkipped
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusUploaded:
		return "Uploaded"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Result reports what happened to a job
type Result struct {
	Job      Job
	Status   Status
	URL      string
	Err      error
	Duration time.Duration
}

// Report collects results; it is safe for concurrent use
type Report struct {
	mu       sync.Mutex
	uploaded map[string]string
	failed   map[string]string
}

// NewReport returns an empty report
func NewReport() *Report {
	return &Report{
		uploaded: make(map[string]string),
		failed:   make(map[string]string),
	}
}

// Add records a result
func (r *Report) Add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch res.Status {
	case StatusUploaded:
		r.uploaded[res.Job.Name] = res.URL
		delete(r.failed, res.Job.Name)
	case StatusFailed:
		msg := "unknown error"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		r.failed[res.Job.Name] = msg
	}
}

// Uploaded returns a copy of the filename to URL map
func (r *Report) Uploaded() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.uploaded))
	for k, v := range r.uploaded {
		out[k] = v
	}
	return out
}

// Failed returns the names of failed jobs, sorted
func (r *Report) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.failed))
	for name := range r.failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteJSON writes the filename to URL map to path
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r.Uploaded(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ShouldSkip checks if a file should be skipped based on configuration.
// Patterns are matched case-insensitively against the base name.
func ShouldSkip(name string, patterns []string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(strings.ToLower(pattern), base); ok {
			return true
		}
	}
	return false
}

// CollectJobs walks dir and returns a job for every regular file not matched by skip.
// Skipped directories are not descended into.
func CollectJobs(dir string, skip []string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if ShouldSkip(d.Name(), skip) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{Path: path, Name: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return jobs, nil
}
