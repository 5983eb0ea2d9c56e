package files

import (
	"path/filepath"
	"strings"
	"time"
)

// AgeBucket enum
type AgeBucket string

const (
	AgeLessThanOneYear    AgeBucket = "lessThanOneYear"
	AgeOneToThreeYears    AgeBucket = "oneToThreeYears"
	AgeMoreThanThreeYears AgeBucket = "moreThanThreeYears"
)

// AgeBuckets in reporting order.
var AgeBuckets = []AgeBucket{AgeLessThanOneYear, AgeOneToThreeYears, AgeMoreThanThreeYears}

// TypeBucket enum
type TypeBucket string

const (
	TypeDocuments     TypeBucket = "documents"
	TypeSpreadsheets  TypeBucket = "spreadsheets"
	TypePresentations TypeBucket = "presentations"
	TypePDFs          TypeBucket = "pdfs"
	TypeImages        TypeBucket = "images"
	TypeOthers        TypeBucket = "others"
)

// TypeBuckets in reporting order.
var TypeBuckets = []TypeBucket{
	TypeDocuments, TypeSpreadsheets, TypePresentations, TypePDFs, TypeImages, TypeOthers,
}

// mimeBuckets maps exact mime types to a bucket. image/* is prefix-matched
// separately in BucketByType.
var mimeBuckets = map[string]TypeBucket{
	"application/vnd.google-apps.document":                                      TypeDocuments,
	"application/msword":                                                        TypeDocuments,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   TypeDocuments,
	"application/vnd.oasis.opendocument.text":                                   TypeDocuments,
	"text/plain":                                                                TypeDocuments,
	"text/markdown":                                                             TypeDocuments,
	"text/rtf":                                                                  TypeDocuments,
	"application/vnd.google-apps.spreadsheet":                                   TypeSpreadsheets,
	"application/vnd.ms-excel":                                                  TypeSpreadsheets,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         TypeSpreadsheets,
	"application/vnd.oasis.opendocument.spreadsheet":                            TypeSpreadsheets,
	"text/csv":                                                                  TypeSpreadsheets,
	"application/vnd.google-apps.presentation":                                  TypePresentations,
	"application/vnd.ms-powerpoint":                                             TypePresentations,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": TypePresentations,
	"application/vnd.oasis.opendocument.presentation":                           TypePresentations,
	"application/pdf":                                                           TypePDFs,
	"application/vnd.google-apps.drawing":                                       TypeImages,
}

// extBuckets is the filename-extension fallback for absent/generic mime types.
var extBuckets = map[string]TypeBucket{
	"doc": TypeDocuments, "docx": TypeDocuments, "txt": TypeDocuments,
	"rtf": TypeDocuments, "odt": TypeDocuments, "pages": TypeDocuments,
	"md": TypeDocuments, "gdoc": TypeDocuments,
	"xls": TypeSpreadsheets, "xlsx": TypeSpreadsheets, "csv": TypeSpreadsheets,
	"ods": TypeSpreadsheets, "numbers": TypeSpreadsheets, "gsheet": TypeSpreadsheets,
	"ppt": TypePresentations, "pptx": TypePresentations, "odp": TypePresentations,
	"key": TypePresentations, "gslides": TypePresentations,
	"pdf": TypePDFs,
	"jpg": TypeImages, "jpeg": TypeImages, "png": TypeImages, "webp": TypeImages,
	"gif": TypeImages, "bmp": TypeImages, "tiff": TypeImages, "heic": TypeImages,
	"gdraw": TypeImages,
}

// BucketByAge maps a modification time to an age bucket relative to now.
// The zero time (unknown / unparseable timestamp) goes to the oldest bucket:
// files of unknown age are surfaced for review rather than hidden as recent.
func BucketByAge(modified time.Time, now time.Time) AgeBucket {
	if modified.IsZero() {
		return AgeMoreThanThreeYears
	}
	age := now.Sub(modified)
	switch {
	case age <= 365*24*time.Hour:
		return AgeLessThanOneYear
	case age <= 1095*24*time.Hour:
		return AgeOneToThreeYears
	default:
		return AgeMoreThanThreeYears
	}
}

// BucketByType maps mime type (primary) or filename extension (fallback)
// to a type bucket.
func BucketByType(mimeType, name string) TypeBucket {
	if b, ok := mimeBuckets[mimeType]; ok {
		return b
	}
	if strings.HasPrefix(mimeType, "image/") {
		return TypeImages
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if b, ok := extBuckets[ext]; ok {
		return b
	}
	return TypeOthers
}
