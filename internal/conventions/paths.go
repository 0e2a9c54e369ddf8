package conventions

import "path/filepath"

const (
	// OutDir is the default artifacts directory, relative to the submission root.
	OutDir = "dist/grading"
	// GradeJSONFile is the structured report filename.
	GradeJSONFile = "grade.json"
	// GradeMarkdownFile is the narrative report filename.
	GradeMarkdownFile = "grade.md"

	// SummaryEnvVar is the CI summary sink the narrative is appended to when set.
	SummaryEnvVar = "GITHUB_STEP_SUMMARY"

	// EnvPrefix is the prefix of the flag environment variables.
	EnvPrefix = "LABGRADE"
)

// DefaultOutDir returns the artifacts directory of a submission root.
func DefaultOutDir(root string) string {
	return filepath.Join(root, OutDir)
}

// ResolveOutDir returns the artifacts directory for the requested one. Empty means
// the default and relative directories are relative to the submission root.
func ResolveOutDir(root, outDir string) string {
	switch {
	case outDir == "":
		return DefaultOutDir(root)
	case filepath.IsAbs(outDir):
		return outDir
	default:
		return filepath.Join(root, outDir)
	}
}
