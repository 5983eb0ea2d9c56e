package scan

import (
	"github.com/bryanwahyu/drive-sentinel/internal/domain/classify"
	"github.com/bryanwahyu/drive-sentinel/internal/domain/files"
)

// SensitiveThreshold is the acceptance threshold: a classification only
// counts as sensitive when its confidence exceeds this value. The
// mime-type fallback confidence (0.6) is below it on purpose.
const SensitiveThreshold = 0.7

// SensitiveFileEntry records one sensitive finding inside an age group.
type SensitiveFileEntry struct {
	File        files.Ref `json:"file"`
	Confidence  float64   `json:"confidence"`
	Explanation string    `json:"explanation"`
	Categories  []string  `json:"categories"`
}

// FailedFile records a per-file failure with its reason.
type FailedFile struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// AgeGroup is the per-age-bucket slice of the report.
type AgeGroup struct {
	TotalDocuments int                                        `json:"total_documents"`
	TotalSensitive int                                        `json:"total_sensitive"`
	FileTypes      map[files.TypeBucket][]files.Ref           `json:"file_types"`
	SensitiveInfo  map[classify.Category][]SensitiveFileEntry `json:"sensitive_info"`
}

func newAgeGroup() *AgeGroup {
	g := &AgeGroup{
		FileTypes:     make(map[files.TypeBucket][]files.Ref, len(files.TypeBuckets)),
		SensitiveInfo: make(map[classify.Category][]SensitiveFileEntry, len(classify.Categories)),
	}
	for _, t := range files.TypeBuckets {
		g.FileTypes[t] = []files.Ref{}
	}
	for _, c := range classify.Categories {
		g.SensitiveInfo[c] = []SensitiveFileEntry{}
	}
	return g
}

// Report is the aggregate scan output.
type Report struct {
	TargetID       string                        `json:"target_id"`
	AgeGroups      map[files.AgeBucket]*AgeGroup `json:"age_groups"`
	ScanComplete   bool                          `json:"scan_complete"`
	ProcessedFiles int                           `json:"processed_files"`
	TotalFiles     int                           `json:"total_files"`
	TotalSensitive int                           `json:"total_sensitive_files"`
	FailedFiles    []FailedFile                  `json:"failed_files"`
}

// NewReport returns an empty report with all buckets initialized.
func NewReport(targetID string) *Report {
	r := &Report{
		TargetID:    targetID,
		AgeGroups:   make(map[files.AgeBucket]*AgeGroup, len(files.AgeBuckets)),
		FailedFiles: []FailedFile{},
	}
	for _, b := range files.AgeBuckets {
		r.AgeGroups[b] = newAgeGroup()
	}
	return r
}

// Outcome is one file's result, accumulated per batch and merged into the
// report sequentially after the batch finishes.
type Outcome struct {
	Ref    files.Ref
	Age    files.AgeBucket
	Type   files.TypeBucket
	Result classify.Result
	Failed *FailedFile
}

// Fold merges a single outcome into the report. Callers serialize access;
// the orchestrator only calls Fold between batches.
func (r *Report) Fold(o Outcome) {
	if o.Failed != nil {
		r.FailedFiles = append(r.FailedFiles, *o.Failed)
		return
	}
	g := r.AgeGroups[o.Age]
	g.TotalDocuments++
	g.FileTypes[o.Type] = append(g.FileTypes[o.Type], o.Ref)
	r.ProcessedFiles++

	if !o.Result.Sensitive(SensitiveThreshold) {
		return
	}
	g.TotalSensitive++
	r.TotalSensitive++
	cats := make([]string, 0, len(o.Result.MatchedTopics))
	cats = append(cats, o.Result.MatchedTopics...)
	g.SensitiveInfo[*o.Result.Primary] = append(g.SensitiveInfo[*o.Result.Primary], SensitiveFileEntry{
		File:        o.Ref,
		Confidence:  o.Result.Confidence,
		Explanation: o.Result.Explanation,
		Categories:  cats,
	})
}
