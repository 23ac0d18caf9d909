package mimetype

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultType is returned for names without a known extension
const DefaultType = "application/octet-stream"

type (
	// ContentTyper resolves the content type for a file name
	ContentTyper interface {
		TypeByName(name string) string
	}
	// Table maps lower case extensions (including the dot) to content types and
	// falls back to the platform mime table
	Table map[string]string
)

// OTA covers the payload formats usually flashed over the air
var OTA = Table{
	".bin":  "application/octet-stream",
	".elf":  "application/octet-stream",
	".img":  "application/octet-stream",
	".uf2":  "application/octet-stream",
	".hex":  "application/octet-stream",
	".txt":  "text/plain",
	".json": "application/json",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
}

func (t Table) TypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultType
	}
	if v, ok := t[ext]; ok {
		return v
	}
	if v := mime.TypeByExtension(ext); v != "" {
		return v
	}
	return DefaultType
}

// Func adapts a plain function to a ContentTyper
type Func func(name string) string

func (f Func) TypeByName(name string) string {
	return f(name)
}
