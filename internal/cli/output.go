package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
)

// nopCloser makes stdout usable as an io.WriteCloser.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a writer for path; "-" is standard output. Missing parent
// directories are created.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.Create(path)
}

// writeFile writes data to path through [openOutput].
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// basePath derives the output path without extension. If output is empty
// it strips the extension from input; if output ends in one of formats,
// that extension is stripped.
func basePath(output, input string, formats map[string]bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if formats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// formatsFor parses the --format flag. Without one, the extension of
// output picks the format when it is in valid.
func formatsFor(flag, output string, valid map[string]bool) []string {
	if flag == "" {
		if ext := strings.TrimPrefix(filepath.Ext(output), "."); valid[ext] {
			return []string{ext}
		}
	}
	return pipeline.ParseFormats(flag)
}

// outputPaths returns the file of each format. A single format written
// to an explicit output goes exactly there.
func outputPaths(output, input string, formats []string, valid map[string]bool) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input, valid)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact to its path in format order and
// lists the files written.
func writeArtifacts(artifacts map[string][]byte, formats []string, paths map[string]string) error {
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		if err := writeFile(paths[f], data); err != nil {
			return err
		}
		if paths[f] != "-" {
			printFile(paths[f])
		}
	}
	return nil
}
