package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileReadOptions configures a FileReadTool.
type FileReadOptions struct {
	// Extensions is the allowed file extension set (with leading dots).
	Extensions []string

	// MaxBytes caps the file size that will be read.
	MaxBytes int64
}

// FileReadTool is a read-only file access provider confined to a root
// directory. Paths are resolved relative to the root; escapes via ".." or
// absolute paths are rejected, as are files outside the extension allow-list.
type FileReadTool struct {
	root     string
	allowed  map[string]struct{}
	maxBytes int64
}

// NewFileReadTool creates a file reader rooted at dir.
func NewFileReadTool(dir string, optFns ...func(o *FileReadOptions)) *FileReadTool {
	opts := FileReadOptions{
		Extensions: []string{".txt", ".md", ".json", ".csv", ".yaml", ".yml"},
		MaxBytes:   1 << 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	allowed := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &FileReadTool{root: dir, allowed: allowed, maxBytes: opts.MaxBytes}
}

// Schema implements Provider.
func (t *FileReadTool) Schema() Schema {
	return Schema{
		Name:        "read_file",
		Description: "Read the contents of a text file below the configured workspace root. The path is relative to that root.",
		Parameters: Parameters{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Relative path of the file to read",
				},
			},
			Required: []string{"path"},
		},
		Executor: "local",
	}
}

// Execute implements Provider.
func (t *FileReadTool) Execute(_ context.Context, params map[string]any) (any, error) {
	rel, _ := params["path"].(string)
	if rel == "" {
		return nil, fmt.Errorf("path parameter is required")
	}
	if filepath.IsAbs(rel) {
		return nil, fmt.Errorf("absolute paths are not allowed")
	}

	full := filepath.Join(t.root, filepath.Clean(rel))
	relCheck, err := filepath.Rel(t.root, full)
	if err != nil || relCheck == ".." || strings.HasPrefix(relCheck, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("path escapes the workspace root")
	}

	ext := strings.ToLower(filepath.Ext(full))
	if _, ok := t.allowed[ext]; !ok {
		return nil, fmt.Errorf("file extension %q is not allowed", ext)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", rel)
	}
	if info.Size() > t.maxBytes {
		return nil, fmt.Errorf("file exceeds size limit of %d bytes", t.maxBytes)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	return map[string]any{
		"path":    rel,
		"size":    info.Size(),
		"content": string(content),
	}, nil
}
