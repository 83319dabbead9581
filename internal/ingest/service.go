package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ignite/lead-dashboard/internal/domain"
	"github.com/ignite/lead-dashboard/internal/leadfile"
	"github.com/ignite/lead-dashboard/internal/pkg/distlock"
	"github.com/ignite/lead-dashboard/internal/pkg/logger"
	"github.com/ignite/lead-dashboard/internal/service/lead"
)

// LockTTL bounds how long an ingest lock can outlive a crashed worker.
const LockTTL = 5 * time.Minute

// LockFactory builds a distributed lock for the given key. A nil factory
// disables locking (single-instance deployments and tests).
type LockFactory func(key string) distlock.DistLock

// UploadedFile is one file from a multipart upload, held in memory.
type UploadedFile struct {
	Name string
	Data []byte
}

// Service runs the ingestion pipeline for a batch of uploaded files.
type Service struct {
	repo     lead.Repository
	blobs    lead.BlobStore
	progress *Tracker
	locks    LockFactory
}

// NewService creates an ingestion service.
func NewService(repo lead.Repository, blobs lead.BlobStore, progress *Tracker, locks LockFactory) *Service {
	return &Service{repo: repo, blobs: blobs, progress: progress, locks: locks}
}

// parsed holds everything extracted from the batch before upload.
type parsed struct {
	summary         leadfile.DialablesSummary
	totalLeads      int
	mainPhoneColumn string
	unprocessedRows int
}

// Ingest classifies, parses, uploads, and persists one batch of files. The
// session ID keys progress reporting; callers poll it while this runs.
// Uploaded blobs are not removed when a later stage fails, the returned error
// names the orphaned paths instead.
func (s *Service) Ingest(ctx context.Context, userID, sessionID string, files []UploadedFile) (*domain.LeadRecord, error) {
	s.progress.Stage(ctx, sessionID, StageClassify)

	names := make([]string, len(files))
	byName := make(map[string]UploadedFile, len(files))
	for i, f := range files {
		names[i] = f.Name
		byName[f.Name] = f
	}

	batch, skipped, err := leadfile.ClassifyBatch(names)
	if err != nil {
		s.progress.Fail(ctx, sessionID, StageClassify, err)
		return nil, fmt.Errorf("%w: %v", ErrClassify, err)
	}
	for _, skip := range skipped {
		logger.Warn("skipping unrecognized upload", "session_id", sessionID, "reason", skip.Error())
	}

	s.progress.Stage(ctx, sessionID, StageParse)
	p, err := s.parse(batch, byName)
	if err != nil {
		s.progress.Fail(ctx, sessionID, StageParse, err)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	// Two batches for one affiliate write under the same blob prefix, so
	// serialize them once the affiliate is known.
	if s.locks != nil {
		lock := s.locks("ingest:lead" + p.summary.AffiliateID)
		acquired, err := lock.Acquire(ctx)
		if err != nil {
			s.progress.Fail(ctx, sessionID, StageUpload, err)
			return nil, fmt.Errorf("%w: acquiring ingest lock: %v", ErrUpload, err)
		}
		if !acquired {
			s.progress.Fail(ctx, sessionID, StageUpload, ErrBusy)
			return nil, ErrBusy
		}
		defer lock.Release(ctx)
	}

	s.progress.Stage(ctx, sessionID, StageUpload)
	paths, err := s.upload(ctx, batch, byName, p.summary.AffiliateID)
	if err != nil {
		s.progress.Fail(ctx, sessionID, StageUpload, err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	s.progress.Stage(ctx, sessionID, StageSave)
	var totalBytes int64
	for _, f := range files {
		totalBytes += int64(len(f.Data))
	}
	rec := &domain.LeadRecord{
		UserID:               userID,
		EntryDate:            p.summary.EntryDate,
		ListID:               p.summary.ListID,
		AffiliateID:          p.summary.AffiliateID,
		ClickID:              p.summary.ClickID,
		Filename:             batch.Main,
		FileSizeLabel:        domain.SizeLabel(totalBytes),
		FileSizeBytes:        totalBytes,
		TotalLeads:           p.totalLeads,
		UploadedCount:        p.summary.RowCount,
		UnprocessedCount:     p.unprocessedRows,
		MainFilePath:         paths[batch.Main],
		DialablesFilePath:    paths[batch.Dialables],
		UnprocessedFilePath:  paths[batch.Unprocessed],
		MainPhoneColumn:      p.mainPhoneColumn,
		DialablesPhoneColumn: leadfile.DialablesPhoneColumn,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		s.progress.Fail(ctx, sessionID, StageSave, err)
		uploaded := make([]string, 0, len(paths))
		for _, path := range paths {
			if path != "" {
				uploaded = append(uploaded, path)
			}
		}
		return nil, fmt.Errorf("%w (files remain at %s): %v", ErrPersist, strings.Join(uploaded, ", "), err)
	}

	s.progress.Complete(ctx, sessionID, rec.ID)
	logger.Info("lead batch ingested",
		"session_id", sessionID,
		"record_id", rec.ID,
		"list_id", rec.ListID,
		"leads", rec.TotalLeads,
		"uploaded", rec.UploadedCount)
	return rec, nil
}

// parse extracts counts and metadata from all files of the batch
// concurrently. The three files are independent so each gets a goroutine.
func (s *Service) parse(batch leadfile.Batch, byName map[string]UploadedFile) (*parsed, error) {
	var (
		wg         sync.WaitGroup
		p          parsed
		summaryErr error
	)
	mainText := string(byName[batch.Main].Data)
	dialablesText := string(byName[batch.Dialables].Data)

	wg.Add(2)
	go func() {
		defer wg.Done()
		p.summary, summaryErr = leadfile.ExtractDialablesSummary(dialablesText)
	}()
	go func() {
		defer wg.Done()
		// The lead total is the main file's full line count, header
		// included. The dashboard has always shown it that way.
		p.totalLeads = len(leadfile.SplitRows(mainText))
		if col, ok := leadfile.DetectPhoneColumn(mainText); ok {
			p.mainPhoneColumn = col
		}
	}()
	if batch.HasUnprocessed() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := string(byName[batch.Unprocessed].Data)
			if rows := leadfile.SplitRows(text); len(rows) > 1 {
				p.unprocessedRows = len(rows) - 1
			}
		}()
	}
	wg.Wait()

	if summaryErr != nil {
		return nil, fmt.Errorf("dialables file %s: %w", batch.Dialables, summaryErr)
	}
	return &p, nil
}

// upload pushes the batch files to blob storage under lead<affiliateId>/ and
// returns the stored path per filename.
func (s *Service) upload(ctx context.Context, batch leadfile.Batch, byName map[string]UploadedFile, affiliateID string) (map[string]string, error) {
	names := []string{batch.Main, batch.Dialables}
	if batch.HasUnprocessed() {
		names = append(names, batch.Unprocessed)
	}

	paths := make(map[string]string, len(names))
	for _, name := range names {
		path, err := s.blobs.Upload(ctx, fmt.Sprintf("lead%s/%s", affiliateID, name), byName[name].Data)
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", name, err)
		}
		paths[name] = path
	}
	return paths, nil
}
