package cardgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// reportName is written beside the archive, never inside it, so the
// archive keeps exactly one entry per rendered card.
const reportName = "report.html"

// writeReport renders a human-readable summary of the run into the output
// directory.
func writeReport(dir string, res *Result) error {
	var md strings.Builder
	md.WriteString("# Card generation run\n\n")
	fmt.Fprintf(&md, "- Run ID: `%s`\n", res.RunID)
	fmt.Fprintf(&md, "- Renderable rows: %d\n", res.Total)
	fmt.Fprintf(&md, "- Cards produced: %d\n", res.Processed)
	fmt.Fprintf(&md, "- Rows skipped: %d\n", res.Skipped)
	fmt.Fprintf(&md, "- Archive: `%s`\n", filepath.Base(res.ArchivePath))

	if len(res.Files) > 0 {
		md.WriteString("\n## Cards\n\n")
		for _, f := range res.Files {
			fmt.Fprintf(&md, "1. %s\n", f)
		}
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, reportName), buf.Bytes(), filePermissions)
}
