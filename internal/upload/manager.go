package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ochronus/gozipline/internal/config"
	"github.com/ochronus/gozipline/internal/services/zipline"
	"github.com/sirupsen/logrus"
)

// ErrStopped is returned by Submit once the manager is closed or stopped.
var ErrStopped = errors.New("upload manager stopped")

// Manager uploads jobs with a fixed pool of workers sharing one client
type Manager struct {
	config  *config.Config
	client  zipline.ClientAPI
	options zipline.UploadOptions
	logger  *logrus.Logger
	report  *Report

	// OnResult, when set, is called from the worker goroutine after each job.
	OnResult func(Result)

	jobChan chan Job
	seen    map[string]time.Time
	seenMu  sync.Mutex

	closeOnce sync.Once
	closed    bool
	closeMu   sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a new upload manager
func NewManager(cfg *config.Config, logger *logrus.Logger, client zipline.ClientAPI, opts zipline.UploadOptions) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config:  cfg,
		client:  client,
		options: opts,
		logger:  logger,
		report:  NewReport(),
		jobChan: make(chan Job, 100),
		seen:    make(map[string]time.Time),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the upload workers with a background context.
func (m *Manager) Start() error {
	return m.StartWithContext(context.Background())
}

// StartWithContext begins the upload workers using the provided parent context.
func (m *Manager) StartWithContext(ctx context.Context) error {
	workers := m.config.Import.Workers
	if workers < config.MinImportWorkers {
		return fmt.Errorf("import.workers must be at least %d", config.MinImportWorkers)
	}

	m.ctx, m.cancel = context.WithCancel(ctx)

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.uploadWorker(i)
	}

	return nil
}

// Submit queues a job. It blocks while the queue is full.
func (m *Manager) Submit(job Job) error {
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()
	if m.closed {
		return ErrStopped
	}

	select {
	case <-m.ctx.Done():
		return ErrStopped
	case m.jobChan <- job:
		return nil
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.closeMu.Lock()
		m.closed = true
		close(m.jobChan)
		m.closeMu.Unlock()
	})
	m.wg.Wait()
}

// Stop cancels in-flight uploads and waits for the workers to exit.
func (m *Manager) Stop() {
	m.cancel()
	m.Close()
}

// Report returns the results gathered so far
func (m *Manager) Report() *Report {
	return m.report
}

// uploadWorker handles uploads until the queue is closed or the context ends
func (m *Manager) uploadWorker(id int) {
	defer m.wg.Done()
	m.logger.Debugf("upload worker %d started", id)

	for {
		select {
		case <-m.ctx.Done():
			return
		case job, ok := <-m.jobChan:
			if !ok {
				return
			}
			res := m.uploadJob(job)
			m.report.Add(res)
			if m.OnResult != nil {
				m.OnResult(res)
			}
		}
	}
}

// uploadJob uploads a single file
func (m *Manager) uploadJob(job Job) Result {
	start := time.Now()
	res := Result{Job: job}

	payload, err := zipline.PayloadFromPath(job.Path, "")
	if err != nil {
		m.logger.Errorf("%s: failed to read: %v", job, err)
		res.Status, res.Err = StatusFailed, err
		return res
	}

	opts := m.options
	if m.config.Upload.KeepOriginalName {
		opts.OriginalName = filepath.Base(job.Path)
	}

	m.logger.Infof("%s: upload started (%s, %s)", job, humanize.Bytes(uint64(len(payload.Data))), payload.ContentType)
	result, err := m.client.Upload(m.ctx, payload, opts)
	res.Duration = time.Since(start)
	if err != nil {
		if zipline.IsAuthError(err) {
			m.logger.Errorf("%s: upload rejected, check the token: %v", job, err)
		} else {
			m.logger.Errorf("%s: upload failed: %v", job, err)
		}
		res.Status, res.Err = StatusFailed, err
		return res
	}

	urls := result.URLs()
	if len(urls) == 0 {
		res.Status, res.Err = StatusFailed, fmt.Errorf("server returned no url")
		m.logger.Errorf("%s: upload failed: %v", job, res.Err)
		return res
	}

	res.Status, res.URL = StatusUploaded, urls[0]
	m.logger.Infof("%s: upload succeeded in %s: %s", job, res.Duration.Round(time.Millisecond), res.URL)
	return res
}

// ImportDirectory uploads every file under dir and returns the report.
func (m *Manager) ImportDirectory(ctx context.Context, dir string) (*Report, error) {
	jobs, err := CollectJobs(dir, m.config.Import.SkipPatterns)
	if err != nil {
		return nil, err
	}
	m.logger.Infof("Found %d files to upload in %s", len(jobs), dir)

	if err := m.StartWithContext(ctx); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if err := m.Submit(job); err != nil {
			m.Stop()
			return m.report, fmt.Errorf("import interrupted: %w", err)
		}
	}
	m.Close()

	if err := ctx.Err(); err != nil {
		return m.report, fmt.Errorf("import interrupted: %w", err)
	}
	return m.report, nil
}

// isSeen reports whether path was already queued with the same modification time
func (m *Manager) isSeen(path string, modTime time.Time) bool {
	m.seenMu.Lock()
	defer m.seenMu.Unlock()
	prev, ok := m.seen[path]
	return ok && prev.Equal(modTime)
}

func (m *Manager) markSeen(path string, modTime time.Time) {
	m.seenMu.Lock()
	defer m.seenMu.Unlock()
	m.seen[path] = modTime
}
