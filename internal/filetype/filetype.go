// Package filetype maps file names to semantic categories and aggregates
// per-category storage usage.
package filetype

import "strings"

type Category string

const (
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryOther    Category = "other"
)

// Categories lists every known category, in classification priority order.
var Categories = []Category{
	CategoryDocument,
	CategoryImage,
	CategoryVideo,
	CategoryAudio,
	CategoryOther,
}

var documentExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "txt": true, "xls": true,
	"xlsx": true, "csv": true, "rtf": true, "ods": true, "ppt": true,
	"odp": true, "md": true, "html": true, "htm": true, "epub": true,
	"pages": true, "fig": true, "psd": true, "ai": true, "indd": true,
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
	"tiff": true, "svg": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "mkv": true, "avi": true, "mov": true, "wmv": true,
	"flv": true,
}

var audioExtensions = map[string]bool{
	"mp3": true, "wav": true, "aac": true, "flac": true, "ogg": true,
}

// Valid reports whether c is one of the five known categories.
func Valid(c Category) bool {
	switch c {
	case CategoryDocument, CategoryImage, CategoryVideo, CategoryAudio, CategoryOther:
		return true
	}
	return false
}

// Classify maps a file name to its category and lower-cased extension.
// A name without a dot yields {other, ""}. An unrecognized extension keeps
// its literal value with category "other" so icon lookup still works.
func Classify(name string) (Category, string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return CategoryOther, ""
	}
	ext := strings.ToLower(name[idx+1:])

	switch {
	case documentExtensions[ext]:
		return CategoryDocument, ext
	case imageExtensions[ext]:
		return CategoryImage, ext
	case videoExtensions[ext]:
		return CategoryVideo, ext
	case audioExtensions[ext]:
		return CategoryAudio, ext
	}
	return CategoryOther, ext
}
