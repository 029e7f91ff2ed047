//go:build mage

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// pkgStats is the line count of one package.
type pkgStats struct {
	Package string `json:"package"`
	Prod    int    `json:"prod"`
	Test    int    `json:"test"`
}

// listFormat prints one line per package: import path, directory, then the
// production and test file lists separated by "|".
const listFormat = `{{.ImportPath}}|{{.Dir}}|{{join .GoFiles ","}}|{{join .TestGoFiles ","}}`

// Stats prints one JSON line per package with production and test line
// counts, followed by a totals line. Build tooling is not counted.
func Stats() error {
	out, err := sh.Output(binGo, "list", "-f", listFormat, "./...")
	if err != nil {
		return err
	}

	var total pkgStats
	total.Package = "total"
	for line := range strings.SplitSeq(out, "\n") {
		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			continue
		}
		ps := pkgStats{Package: fields[0]}
		if ps.Prod, err = countFiles(fields[1], fields[2]); err != nil {
			return err
		}
		if ps.Test, err = countFiles(fields[1], fields[3]); err != nil {
			return err
		}
		total.Prod += ps.Prod
		total.Test += ps.Test
		if err := printJSON(ps); err != nil {
			return err
		}
	}
	return printJSON(total)
}

// countFiles sums the lines of the comma-separated files under dir.
func countFiles(dir, files string) (int, error) {
	n := 0
	for name := range strings.SplitSeq(files, ",") {
		if name == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, err
		}
		n += bytes.Count(data, []byte("\n"))
	}
	return n, nil
}

func printJSON(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}
