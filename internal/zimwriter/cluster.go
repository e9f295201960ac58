// Copyright (c) 2026 ZimFiction. All rights reserved.

package zimwriter

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/lanrat/extsort"

	"github.com/imaybeabitshy/zimfiction/internal/artifact"
)

// pathSeparator delimits an artifact's path from its encoded payload in the
// line extsort sorts. Artifact paths never contain NUL, so a lexicographic
// sort of these lines is equivalent to sorting by path alone.
const pathSeparator = "\x00"

// sortByPath re-sequences an unordered artifact stream into ZIM's required
// URL-sorted order (spec §4.6) without holding the full set in memory:
// each artifact is serialized as "<path>\x00<base64 payload>", handed to
// extsort's external merge sort (which itself spills sorted runs to
// tempDir once its in-memory chunk fills), and decoded again on the way
// out. No example repo in the corpus calls lanrat/extsort directly (it only
// appears in a dependency manifest); usage here follows the library's own
// documented Strings() helper.
func sortByPath(ctx context.Context, in <-chan artifact.Artifact, tempDir string) (<-chan artifact.Artifact, <-chan error) {
	lines := make(chan string)
	encodeErrs := make(chan error, 1)

	go func() {
		defer close(lines)
		defer close(encodeErrs)
		for a := range in {
			line, err := encodeLine(a)
			if err != nil {
				encodeErrs <- fmt.Errorf("zimwriter: encode %q: %w", a.Path, err)
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	config := extsort.DefaultConfig()
	config.TempFilesDir = tempDir

	sorter, sortedLines, sortErrs := extsort.Strings(lines, config)
	go sorter.Sort(ctx)

	out := make(chan artifact.Artifact)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)
		for line := range sortedLines {
			a, err := decodeLine(line)
			if err != nil {
				errs <- fmt.Errorf("zimwriter: decode clustered artifact: %w", err)
				return
			}
			select {
			case out <- a:
			case <-ctx.Done():
				return
			}
		}
		if err := <-sortErrs; err != nil {
			errs <- fmt.Errorf("zimwriter: clustering sort: %w", err)
			return
		}
		if err := <-encodeErrs; err != nil {
			errs <- err
		}
	}()

	return out, errs
}

func encodeLine(a artifact.Artifact) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return a.Path + pathSeparator + base64.StdEncoding.EncodeToString(payload), nil
}

func decodeLine(line string) (artifact.Artifact, error) {
	idx := strings.IndexByte(line, 0)
	if idx < 0 {
		return artifact.Artifact{}, fmt.Errorf("malformed clustering line: missing separator")
	}
	raw, err := base64.StdEncoding.DecodeString(line[idx+1:])
	if err != nil {
		return artifact.Artifact{}, err
	}
	var a artifact.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return artifact.Artifact{}, err
	}
	return a, nil
}
