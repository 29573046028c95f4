// Package archive snapshots the dataset files to S3-compatible storage.
// The CSVs are the canonical record and live in version control; snapshots
// exist so a deployment can answer "what did the data look like on date X"
// without digging through history.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kamerdata/kamerarchief/internal/config"
	"github.com/kamerdata/kamerarchief/internal/dataset"
	"github.com/kamerdata/kamerarchief/internal/model"
	"github.com/kamerdata/kamerarchief/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// State represents the archive manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current archive manager status.
type Status struct {
	State        State      `json:"state"`
	LastSnapshot *time.Time `json:"last_snapshot,omitempty"`
	Error        string     `json:"error,omitempty"`
	InProgress   bool       `json:"in_progress"`
}

// StatusCallback is called whenever the archive state changes.
type StatusCallback func(Status)

// Manager uploads dataset snapshots on a daily schedule and on demand.
type Manager struct {
	mu       sync.RWMutex
	cfg      config.ArchiveConfig
	dataDir  string
	status   Status
	callback StatusCallback

	archiveStore *store.ArchiveStore
	client       s3Client
	logger       *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates an archive manager. It stays disabled unless bucket and
// credentials are configured.
func NewManager(cfg config.ArchiveConfig, dataDir string, as *store.ArchiveStore, callback StatusCallback, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:          cfg,
		dataDir:      dataDir,
		archiveStore: as,
		callback:     callback,
		logger:       logger,
		status:       Status{State: StateDisabled},
	}

	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		m.client = newS3Client(cfg)
		m.status.State = StateIdle
	}

	return m
}

func newS3Client(cfg config.ArchiveConfig) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether snapshot storage is configured.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// Start begins the scheduled snapshot loop.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status.State == StateDisabled {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkSchedule(ctx)
			}
		}
	}()
}

// Stop gracefully stops the manager.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns the current manager status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	if s.LastSnapshot == nil {
		s.LastSnapshot = m.status.LastSnapshot
	}
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

func (m *Manager) checkSchedule(ctx context.Context) {
	now := time.Now().UTC()
	if now.Hour() != m.cfg.Hour || now.Minute() != 0 {
		return
	}

	if _, err := m.RunNow(ctx); err != nil {
		m.logger.Error("scheduled snapshot failed", "error", err)
	}

	if m.cfg.RetentionDays > 0 {
		if err := m.Cleanup(ctx, m.cfg.RetentionDays); err != nil {
			m.logger.Error("snapshot cleanup failed", "error", err)
		}
	}
}

// RunNow snapshots both dataset files immediately and returns the ledger
// entries.
func (m *Manager) RunNow(ctx context.Context) ([]model.ArchiveObject, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.Bucket
	prefix := m.cfg.Prefix
	m.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("archive not configured: S3 credentials missing")
	}

	m.setStatus(Status{State: StateRunning, InProgress: true})

	timestamp := time.Now().UTC().Format("2006-01-02T150405Z")
	var objects []model.ArchiveObject
	for _, file := range []string{dataset.MembersFile, dataset.AppointmentsFile} {
		obj, err := m.uploadFile(ctx, client, bucket, prefix, timestamp, file)
		if err != nil {
			m.setStatus(Status{State: StateError, Error: err.Error()})
			return nil, err
		}
		objects = append(objects, *obj)
	}

	now := time.Now().UTC()
	m.setStatus(Status{State: StateIdle, LastSnapshot: &now})
	return objects, nil
}

func (m *Manager) uploadFile(ctx context.Context, client s3Client, bucket, prefix, timestamp, file string) (*model.ArchiveObject, error) {
	path := filepath.Join(m.dataDir, file)
	fingerprint, err := dataset.Fingerprint(path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", file, err)
	}

	key := fmt.Sprintf("%s/%s/%s", prefix, timestamp, file)
	record, err := m.archiveStore.Create(file, key, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("create archive record: %w", err)
	}

	m.archiveStore.UpdateStatus(record.ID, model.ArchiveStatusUploading, "")

	f, err := os.Open(path)
	if err != nil {
		m.archiveStore.UpdateStatus(record.ID, model.ArchiveStatusFailed, err.Error())
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		m.archiveStore.UpdateStatus(record.ID, model.ArchiveStatusFailed, err.Error())
		return nil, fmt.Errorf("stat %s: %w", file, err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("text/csv; charset=utf-8"),
		Metadata:      map[string]string{"fingerprint": fingerprint},
	})
	if err != nil {
		m.archiveStore.UpdateStatus(record.ID, model.ArchiveStatusFailed, err.Error())
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	if err := m.archiveStore.SetUploaded(record.ID, info.Size()); err != nil {
		return nil, err
	}
	m.logger.Info("snapshot uploaded", "key", key, "bytes", info.Size())
	return m.archiveStore.GetByID(record.ID)
}

// Cleanup deletes uploaded snapshots older than the retention window, both
// from storage and from the ledger.
func (m *Manager) Cleanup(ctx context.Context, retentionDays int) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.Bucket
	m.mu.RUnlock()

	if client == nil {
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	expired, err := m.archiveStore.CompletedOlderThan(cutoff)
	if err != nil {
		return err
	}

	for _, obj := range expired {
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(obj.S3Key),
		})
		if err != nil {
			return fmt.Errorf("delete %s: %w", obj.S3Key, err)
		}
		if err := m.archiveStore.Delete(obj.ID); err != nil {
			return err
		}
		m.logger.Info("snapshot expired", "key", obj.S3Key)
	}
	return nil
}
