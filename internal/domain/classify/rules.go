package classify

import (
	"regexp"
	"sort"
	"strings"
)

// keywords per category. Matched whole-word, case-insensitive, against
// filenames and extracted content alike.
var keywords = map[Category][]string{
	CategoryPII: {
		"dob", "email", "phone", "address", "ssn", "personal", "pii",
		"hipaa", "gdpr", "personally identifiable", "customer data",
		"personnel", "employee", "patient", "healthcare", "hr", "resume",
	},
	CategoryFinancial: {
		"credit", "bank", "amount", "revenue", "budget", "roi", "cost",
		"financial", "invoice", "payment", "expense", "profit", "pricing",
		"salary", "investment", "tax",
	},
	CategoryLegal: {
		"license", "contract", "agreement", "legal", "compliance",
		"regulatory", "counsel", "policy", "policies", "terms",
		"regulation", "gdpr", "hipaa", "ccpa", "certification", "audit",
		"liability",
	},
	CategoryConfidential: {
		"confidential", "internal use", "do not distribute", "sensitive",
		"security", "restricted", "proprietary", "classified", "private",
		"secret", "nda", "non-disclosure", "intellectual property",
		"trade secret", "internal only",
	},
}

// detectors are the fixed PII pattern set. Any hit counts as a pii signal
// regardless of which pattern fired. Context words are required where the
// raw number format alone would be too noisy.
var detectors = []struct {
	Label string
	Re    *regexp.Regexp
}{
	{"credit_card", regexp.MustCompile(`(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|6(?:011|5[0-9]{2})[0-9]{12})`)},
	{"ssn", regexp.MustCompile(`(?i)(?:SSN|Social Security)[^0-9-]*\d{3}-\d{2}-\d{4}`)},
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}`)},
	{"phone", regexp.MustCompile(`(?i)(?:Phone|Tel|Mobile|Contact|Call|Fax)[^0-9(]+(?:\+?1[-. ])?\(?[2-9][0-9]{2}\)?[-. ]?[2-9][0-9]{2}[-. ]?[0-9]{4}`)},
	{"drivers_license", regexp.MustCompile(`(?i)(?:Driver'?s? License|License Number|License #)[^0-9]*(?:[A-Z]?\d{7,9}|[A-Z]\d{2}[-\s]?\d{3}[-\s]?\d{3}|[A-Z]\d{3}[-\s]?\d{3}[-\s]?\d{3})`)},
	{"address_like", regexp.MustCompile(`(?i)(?:Address|Location|Street)[^0-9]*\d{1,5}\s[\w\s.]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Circle|Cir|Court|Ct|Way|Place|Pl|Square|Sq)\b`)},
	{"expiry_date", regexp.MustCompile(`(?i)(?:Expiry|Expires?|Expiration|Valid Thru|Valid Until)[^0-9]*(?:0[1-9]|1[0-2])/(?:2[3-9]|[3-9][0-9])\b`)},
}

// compiled whole-word matchers, one per keyword, built once at init.
var keywordRes map[Category][]*regexp.Regexp

func init() {
	keywordRes = make(map[Category][]*regexp.Regexp, len(keywords))
	for cat, words := range keywords {
		res := make([]*regexp.Regexp, 0, len(words))
		for _, w := range words {
			res = append(res, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
		}
		keywordRes[cat] = res
	}
}

// sensitiveMimeTypes is the "typically sensitive" set used for the
// low-confidence fallback when no real signal is found.
var sensitiveMimeTypes = map[string]bool{
	"application/vnd.google-apps.document":    true,
	"application/vnd.google-apps.spreadsheet": true,
	"application/pdf":                         true,
	"application/vnd.google-apps.drawing":     true,
	"image/jpeg":                              true,
	"image/png":                               true,
	"image/gif":                               true,
	"image/bmp":                               true,
	"image/webp":                              true,
}

// TypicallySensitiveMime reports whether the mime type belongs to the
// fallback set.
func TypicallySensitiveMime(mimeType string) bool {
	return sensitiveMimeTypes[mimeType]
}

// ImageMime reports whether the mime type is an image we would route to the
// secondary analyzer.
func ImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") ||
		mimeType == "application/vnd.google-apps.drawing"
}

// Findings maps matched categories to the labels that fired for them.
type Findings map[Category][]string

// Categories returns the matched categories in enumeration order.
func (f Findings) Categories() []Category {
	out := make([]Category, 0, len(f))
	for _, cat := range Categories {
		if len(f[cat]) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// Topics returns a sorted, de-duplicated union of matched category names
// and signal labels.
func (f Findings) Topics() []string {
	set := make(map[string]bool)
	for cat, labels := range f {
		set[string(cat)] = true
		for _, l := range labels {
			set[l] = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Merge folds other into f.
func (f Findings) Merge(other Findings) {
	for cat, labels := range other {
		f[cat] = append(f[cat], labels...)
	}
}

// ScanText runs the whole-word keyword search per category plus the PII
// detectors against text. Detector hits land under pii. Pure function.
func ScanText(text string) Findings {
	findings := Findings{}
	if text == "" {
		return findings
	}
	for _, cat := range Categories {
		words := keywords[cat]
		for i, re := range keywordRes[cat] {
			if re.MatchString(text) {
				findings[cat] = append(findings[cat], words[i])
			}
		}
	}
	for _, d := range detectors {
		if d.Re.MatchString(text) {
			findings[CategoryPII] = append(findings[CategoryPII], d.Label)
		}
	}
	return findings
}

var filenameSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// MatchFilename runs the keyword search only (no detectors) against a
// filename. Separator characters are treated as word breaks so that
// "Q3_salary_report.xlsx" matches "salary". Pure function.
func MatchFilename(name string) Findings {
	normalized := filenameSeparators.Replace(name)
	findings := Findings{}
	for _, cat := range Categories {
		words := keywords[cat]
		for i, re := range keywordRes[cat] {
			if re.MatchString(normalized) {
				findings[cat] = append(findings[cat], words[i])
				break
			}
		}
	}
	return findings
}
