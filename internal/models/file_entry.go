package models

// FileEntry describes one file of one package version. Entries are created
// during tree ingestion and are owned by that version's file table; the
// reconciler never shares an entry between the old and new tables.
type FileEntry struct {
	// LogicalPath is the version-independent identity of the file, e.g.
	// "/usr/lib/libfoo.so.1".
	LogicalPath string `json:"logical_path"`
	// PhysicalPath is where the file lives in the extracted tree on disk.
	PhysicalPath string `json:"physical_path"`
	// SizeBytes is the file size at ingestion time.
	SizeBytes int64 `json:"size_bytes"`
	// Format is the classifier's verdict for this path.
	Format FormatTag `json:"format"`
	// IsDir and IsSymlink mirror the lstat result captured at ingestion.
	IsDir     bool `json:"is_dir,omitempty"`
	IsSymlink bool `json:"is_symlink,omitempty"`
}

// FileTable is a version's complete logical-path index.
type FileTable map[string]*FileEntry

// Paths returns all logical paths in the table, unsorted.
func (ft FileTable) Paths() []string {
	paths := make([]string, 0, len(ft))
	for p := range ft {
		paths = append(paths, p)
	}
	return paths
}
