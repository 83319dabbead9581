package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ignite/lead-dashboard/internal/domain"
	"github.com/ignite/lead-dashboard/internal/pkg/distlock"
	"github.com/redis/go-redis/v9"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeRepo struct {
	inserted  *domain.LeadRecord
	insertErr error
}

func (f *fakeRepo) Insert(_ context.Context, rec *domain.LeadRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	rec.ID = "rec-1"
	f.inserted = rec
	return nil
}

func (f *fakeRepo) Get(context.Context, string, string) (*domain.LeadRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) List(context.Context, string, string) ([]domain.LeadRecord, error) {
	return nil, nil
}
func (f *fakeRepo) UpdatePhoneColumns(context.Context, string, string, *string, *string) error {
	return nil
}
func (f *fakeRepo) Delete(context.Context, string, string) error { return nil }
func (f *fakeRepo) Stats(context.Context, string) (*domain.DashboardStats, error) {
	return nil, nil
}

type fakeBlobs struct {
	objects   map[string][]byte
	uploadErr error
}

func (f *fakeBlobs) Upload(_ context.Context, path string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[path] = data
	return path, nil
}

func (f *fakeBlobs) Download(_ context.Context, path string) ([]byte, error) {
	return f.objects[path], nil
}

func (f *fakeBlobs) Remove(_ context.Context, paths []string) error {
	for _, p := range paths {
		delete(f.objects, p)
	}
	return nil
}

func setupIngestTest(t *testing.T) (*Service, *fakeRepo, *fakeBlobs, *Tracker, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := &fakeRepo{}
	blobs := &fakeBlobs{}
	tracker := NewTracker(redisClient)
	locks := func(key string) distlock.DistLock {
		return distlock.NewRedisLock(redisClient, key, LockTTL)
	}
	svc := NewService(repo, blobs, tracker, locks)

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}
	return svc, repo, blobs, tracker, cleanup
}

const dialablesFixture = "entry_date\tlist_id\tvendor_lead_code\tsource_id\tphone_numbers\n" +
	"2024-05-01 09:30:00\t9265\t21\tclick-7\t5551234567\n" +
	"2024-05-01 09:30:00\t9265\t21\tclick-7\t5551234568\n"

const mainFixture = "name,phone\n" +
	"alice,5551234567\n" +
	"bob,5551234568\n" +
	"carol,5551234569\n"

func batchFiles() []UploadedFile {
	return []UploadedFile{
		{Name: "weekly_leads.csv", Data: []byte(mainFixture)},
		{Name: "LIST_9265.txt", Data: []byte(dialablesFixture)},
	}
}

// =============================================================================
// TESTS
// =============================================================================

func TestIngest(t *testing.T) {
	svc, repo, blobs, tracker, cleanup := setupIngestTest(t)
	defer cleanup()
	ctx := context.Background()

	rec, err := svc.Ingest(ctx, "user-1", "sess-1", batchFiles())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if rec.ID != "rec-1" || repo.inserted == nil {
		t.Fatal("record was not persisted")
	}
	if rec.ListID != "9265" || rec.AffiliateID != "21" || rec.ClickID != "click-7" {
		t.Errorf("dialables metadata wrong: %+v", rec)
	}
	if rec.EntryDate != "2024-05-01" {
		t.Errorf("EntryDate = %q, want date part only", rec.EntryDate)
	}
	if rec.TotalLeads != 4 || rec.UploadedCount != 2 {
		t.Errorf("counts = %d/%d, want 4/2", rec.TotalLeads, rec.UploadedCount)
	}
	if rec.MainPhoneColumn != "phone" {
		t.Errorf("MainPhoneColumn = %q, want phone", rec.MainPhoneColumn)
	}
	if rec.DialablesPhoneColumn != "phone_numbers" {
		t.Errorf("DialablesPhoneColumn = %q", rec.DialablesPhoneColumn)
	}
	if rec.MainFilePath != "lead21/weekly_leads.csv" || rec.DialablesFilePath != "lead21/LIST_9265.txt" {
		t.Errorf("blob paths wrong: %q / %q", rec.MainFilePath, rec.DialablesFilePath)
	}
	if _, ok := blobs.objects["lead21/weekly_leads.csv"]; !ok {
		t.Error("main file was not uploaded")
	}

	progress, err := tracker.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get progress: %v", err)
	}
	if progress.Status != StatusCompleted || progress.Percent != 100 || progress.RecordID != "rec-1" {
		t.Errorf("final progress = %+v", progress)
	}
}

func TestIngest_WithUnprocessedFile(t *testing.T) {
	svc, _, _, _, cleanup := setupIngestTest(t)
	defer cleanup()

	files := append(batchFiles(), UploadedFile{
		Name: "batch_unprocessed.csv",
		Data: []byte("name,phone\nzoe,5559990000\nyuri,5559990001\n"),
	})
	rec, err := svc.Ingest(context.Background(), "user-1", "sess-2", files)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if rec.UnprocessedCount != 2 {
		t.Errorf("UnprocessedCount = %d, want 2", rec.UnprocessedCount)
	}
	if rec.UnprocessedFilePath != "lead21/batch_unprocessed.csv" {
		t.Errorf("UnprocessedFilePath = %q", rec.UnprocessedFilePath)
	}
}

func TestIngest_MissingDialables(t *testing.T) {
	svc, _, _, tracker, cleanup := setupIngestTest(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "user-1", "sess-3", []UploadedFile{
		{Name: "main.csv", Data: []byte(mainFixture)},
	})
	if !errors.Is(err, ErrClassify) {
		t.Fatalf("err = %v, want ErrClassify", err)
	}

	progress, _ := tracker.Get(ctx, "sess-3")
	if progress.Status != StatusFailed || progress.Stage != StageClassify {
		t.Errorf("progress after failure = %+v", progress)
	}
}

func TestIngest_EmptyDialables(t *testing.T) {
	svc, _, _, _, cleanup := setupIngestTest(t)
	defer cleanup()

	files := []UploadedFile{
		{Name: "main.csv", Data: []byte(mainFixture)},
		{Name: "LIST_9265.txt", Data: []byte("entry_date\tlist_id\n")},
	}
	_, err := svc.Ingest(context.Background(), "user-1", "sess-4", files)
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestIngest_PersistFailureNamesOrphanedBlobs(t *testing.T) {
	svc, repo, blobs, tracker, cleanup := setupIngestTest(t)
	defer cleanup()
	ctx := context.Background()
	repo.insertErr = errors.New("connection refused")

	_, err := svc.Ingest(ctx, "user-1", "sess-5", batchFiles())
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("err = %v, want ErrPersist", err)
	}
	if !strings.Contains(err.Error(), "lead21/weekly_leads.csv") {
		t.Errorf("error should name orphaned paths, got %v", err)
	}
	// Uploaded blobs stay put for manual cleanup.
	if _, ok := blobs.objects["lead21/weekly_leads.csv"]; !ok {
		t.Error("uploaded blob should not be rolled back")
	}

	progress, _ := tracker.Get(ctx, "sess-5")
	if progress.Status != StatusFailed || progress.Stage != StageSave {
		t.Errorf("progress after failure = %+v", progress)
	}
}

func TestIngest_AffiliateLockHeld(t *testing.T) {
	svc, _, _, _, cleanup := setupIngestTest(t)
	defer cleanup()
	ctx := context.Background()

	// Another process is mid-ingest for affiliate 21.
	lock := distlock.NewRedisLock(svc.progress.redis, "ingest:lead21", LockTTL)
	acquired, err := lock.Acquire(ctx)
	if err != nil || !acquired {
		t.Fatalf("pre-acquire lock: acquired=%v err=%v", acquired, err)
	}
	defer lock.Release(ctx)

	_, err = svc.Ingest(ctx, "user-1", "sess-6", batchFiles())
	if !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
}

func TestIngest_TotalLeadsCountsHeaderLine(t *testing.T) {
	svc, _, _, _, cleanup := setupIngestTest(t)
	defer cleanup()

	// Header plus three data rows, with trailing newlines that must not
	// inflate the count.
	main := "name,phone\nalice,5551234567\nbob,5551234568\ncarol,5551234569\n\n"
	files := []UploadedFile{
		{Name: "weekly_leads.csv", Data: []byte(main)},
		{Name: "LIST_9265.txt", Data: []byte(dialablesFixture)},
	}
	rec, err := svc.Ingest(context.Background(), "user-1", "sess-7", files)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if rec.TotalLeads != 4 {
		t.Errorf("TotalLeads = %d, want 4 (all lines, header included)", rec.TotalLeads)
	}
}

func TestTracker_UnknownSession(t *testing.T) {
	_, _, _, tracker, cleanup := setupIngestTest(t)
	defer cleanup()

	progress, err := tracker.Get(context.Background(), "never-started")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if progress.Status != "unknown" {
		t.Errorf("Status = %q, want unknown", progress.Status)
	}
}
