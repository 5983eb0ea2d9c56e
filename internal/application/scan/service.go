package scan

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/drive-sentinel/internal/domain/classify"
	"github.com/bryanwahyu/drive-sentinel/internal/domain/files"
	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Extractor port: bounded text extraction for one file. Unsupported or
// oversized files yield empty text with nil error; a non-nil error means
// the file failed and goes to FailedFiles.
type Extractor interface {
	Extract(ctx context.Context, rec files.FileRecord) (string, error)
}

// Classifier port. Classification never errors: the rule engine is total
// and the secondary path degrades to a deferred mark.
type Classifier interface {
	Classify(ctx context.Context, filename, mimeType, content string) classify.Result
}

// Options are the orchestrator tunables.
type Options struct {
	BatchSize             int
	BatchTimeout          time.Duration
	ExtractionTimeout     time.Duration
	ClassificationTimeout time.Duration
}

// batchTimeoutReason is the failure reason recorded for every file in a
// batch whose umbrella timeout fired. canceledReason is used instead when
// the caller's context was canceled before the timer.
const (
	batchTimeoutReason = "Batch processing timeout"
	canceledReason     = "Scan canceled"
)

// Service implements the directory scan use-case: enumerate, process in
// concurrent fixed-size batches, aggregate, cache.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Store      domain.FileStore
	Extractor  Extractor
	Classifier Classifier
	Cache      *Cache
	Snapshots  domain.SnapshotStore // optional
	Failures   domain.FailureLog    // optional
	Clock      Clock
	Opts       Options

	mu       sync.Mutex
	inflight map[string]*inflightScan
}

type inflightScan struct {
	done   chan struct{}
	report *domain.Report
	err    error
}

// Scan walks the tree under rootID and returns the aggregate report.
// Cached results within TTL are returned as-is; concurrent scans of the
// same target share a single in-flight run.
//
// Only availability and enumeration errors are returned; per-file and
// per-batch failures are folded into the report.
func (s *Service) Scan(ctx context.Context, tenant, rootID string, recursive bool) (*domain.Report, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(rootID); ok {
			log.Printf("scan: cache hit target=%s", rootID)
			return cached, nil
		}
	}

	call, leader := s.join(rootID)
	if !leader {
		select {
		case <-call.done:
			return call.report, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	report, err := s.run(ctx, tenant, rootID, recursive)
	call.report, call.err = report, err
	s.leave(rootID)
	close(call.done)
	return report, err
}

// join registers interest in a target scan. The first caller becomes the
// leader and actually runs it.
func (s *Service) join(rootID string) (*inflightScan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[string]*inflightScan)
	}
	if call, ok := s.inflight[rootID]; ok {
		return call, false
	}
	call := &inflightScan{done: make(chan struct{})}
	s.inflight[rootID] = call
	return call, true
}

func (s *Service) leave(rootID string) {
	s.mu.Lock()
	delete(s.inflight, rootID)
	s.mu.Unlock()
}

func (s *Service) run(ctx context.Context, tenant, rootID string, recursive bool) (*domain.Report, error) {
	if !s.Store.IsAvailable(ctx) {
		return nil, domain.ErrStoreUnavailable
	}

	scanID := uuid.New().String()
	started := s.Clock.Now()
	log.Printf("scan: started id=%s target=%s recursive=%t", scanID, rootID, recursive)

	report := domain.NewReport(rootID)

	all, invalid, err := s.enumerate(ctx, rootID, recursive)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnumeration, err)
	}
	report.TotalFiles = len(all) + len(invalid)
	for _, f := range invalid {
		report.Fold(domain.Outcome{Failed: &f})
	}

	for start := 0; start < len(all); start += s.batchSize() {
		end := start + s.batchSize()
		if end > len(all) {
			end = len(all)
		}
		outcomes := s.processBatch(ctx, all[start:end])
		// merge after batch: the report is only mutated here, sequentially
		for _, o := range outcomes {
			report.Fold(o)
		}
	}

	report.ScanComplete = true
	log.Printf("scan: complete id=%s target=%s files=%d processed=%d failed=%d sensitive=%d duration=%s",
		scanID, rootID, report.TotalFiles, report.ProcessedFiles,
		len(report.FailedFiles), report.TotalSensitive, s.Clock.Now().Sub(started))

	if s.Cache != nil {
		s.Cache.Put(rootID, report)
	}
	s.persistSideEffects(tenant, rootID, scanID, report)
	return report, nil
}

// enumerate lists the tree under rootID. Folder listing errors are fatal;
// records failing validation become failed-file entries.
func (s *Service) enumerate(ctx context.Context, rootID string, recursive bool) ([]files.FileRecord, []domain.FailedFile, error) {
	var (
		out     []files.FileRecord
		invalid []domain.FailedFile
	)
	queue := []string{rootID}
	for len(queue) > 0 {
		folderID := queue[0]
		queue = queue[1:]

		children, err := s.Store.ListChildren(ctx, folderID)
		if err != nil {
			return nil, nil, fmt.Errorf("list %s: %w", folderID, err)
		}
		for _, c := range children {
			if c.IsFolder() {
				if recursive {
					queue = append(queue, c.ID)
				}
				continue
			}
			if err := c.Validate(); err != nil {
				invalid = append(invalid, domain.FailedFile{Name: c.Name, Error: err.Error()})
				continue
			}
			out = append(out, c)
		}
	}
	return out, invalid, nil
}

// processBatch runs every file of the batch concurrently under the batch
// umbrella timeout. Files still running when the umbrella fires are
// abandoned and recorded failed; their contexts are canceled so no work
// leaks into later batches.
func (s *Service) processBatch(ctx context.Context, batch []files.FileRecord) []domain.Outcome {
	batchCtx, cancel := context.WithTimeout(ctx, s.Opts.BatchTimeout)
	defer cancel()

	type indexed struct {
		i int
		o domain.Outcome
	}
	results := make(chan indexed, len(batch))
	for i, rec := range batch {
		go func(i int, rec files.FileRecord) {
			results <- indexed{i, s.processFile(batchCtx, rec)}
		}(i, rec)
	}

	outcomes := make([]domain.Outcome, len(batch))
	collected := make([]bool, len(batch))
	for n := 0; n < len(batch); n++ {
		select {
		case r := <-results:
			outcomes[r.i] = r.o
			collected[r.i] = true
		case <-batchCtx.Done():
			reason := batchTimeoutReason
			if ctx.Err() != nil {
				reason = canceledReason
			}
			for i := range batch {
				if !collected[i] {
					outcomes[i] = domain.Outcome{Failed: &domain.FailedFile{
						Name:  batch[i].Name,
						Error: reason,
					}}
				}
			}
			log.Printf("scan: batch aborted reason=%q, %d file(s) abandoned", reason, len(batch)-n)
			return outcomes
		}
	}
	return outcomes
}

// processFile runs one file through extract → classify → bucket. Failures
// never escape: they come back as a failed outcome.
func (s *Service) processFile(ctx context.Context, rec files.FileRecord) domain.Outcome {
	modified, _ := rec.Modified() // zero time buckets as oldest
	age := files.BucketByAge(modified, s.Clock.Now())
	typ := files.BucketByType(rec.MimeType, rec.Name)

	extractCtx, cancelExtract := context.WithTimeout(ctx, s.Opts.ExtractionTimeout)
	content, err := s.Extractor.Extract(extractCtx, rec)
	cancelExtract()
	if err != nil {
		return domain.Outcome{Failed: &domain.FailedFile{
			Name:  rec.Name,
			Error: fmt.Sprintf("extraction failed: %v", err),
		}}
	}

	classifyCtx, cancelClassify := context.WithTimeout(ctx, s.Opts.ClassificationTimeout)
	result := s.Classifier.Classify(classifyCtx, rec.Name, rec.MimeType, content)
	cancelClassify()

	return domain.Outcome{
		Ref:    rec.Ref(),
		Age:    age,
		Type:   typ,
		Result: result,
	}
}

// persistSideEffects writes the snapshot and the failure audit log.
// Both are best-effort debugging aids and never fail the scan.
func (s *Service) persistSideEffects(tenant, rootID, scanID string, report *domain.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if s.Snapshots != nil {
		if url, err := s.Snapshots.SaveSnapshot(ctx, report, scanID); err != nil {
			log.Printf("scan: snapshot upload failed id=%s err=%v", scanID, err)
		} else {
			log.Printf("scan: snapshot saved id=%s url=%s", scanID, url)
		}
	}
	if s.Failures != nil {
		for _, f := range report.FailedFiles {
			entry := &domain.Failure{
				TenantID:  tenant,
				ScanID:    scanID,
				TargetID:  rootID,
				FileName:  f.Name,
				Reason:    f.Error,
				CreatedAt: s.Clock.Now(),
			}
			if err := s.Failures.Save(ctx, entry); err != nil {
				log.Printf("scan: failure audit write failed id=%s file=%s err=%v", scanID, f.Name, err)
			}
		}
	}
}

func (s *Service) batchSize() int {
	if s.Opts.BatchSize <= 0 {
		return 2
	}
	return s.Opts.BatchSize
}
