package render

import (
	htmltemplate "html/template"

	"github.com/Xunop/json2epub/internal/format"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/pkg/errors"
)

var funcs = htmltemplate.FuncMap{
	"formatEpochTime": formatEpochTime,
	"chapterLabel":    format.ChapterLabel,
	"metadataFields": func(md model.Metadata) []format.Field {
		return format.MetadataFields(&md)
	},
}

// formatEpochTime is the template form of format.FormatEpochTime. A
// timestamp outside the calendar range renders as an empty string.
func formatEpochTime(seconds any, pattern string) (string, error) {
	var secs int64
	switch v := seconds.(type) {
	case uint32:
		secs = int64(v)
	case *uint32:
		if v == nil {
			return "", nil
		}
		secs = int64(*v)
	case int:
		secs = int64(v)
	case int64:
		secs = v
	default:
		return "", errors.Errorf("formatEpochTime: unsupported timestamp type %T", seconds)
	}
	s, _ := format.FormatEpochTime(secs, pattern)
	return s, nil
}
