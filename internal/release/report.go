package release

import (
	"fmt"
	"strings"
)

// NotConfiguredMarker is what the report shows for the remote copy
// when no bucket is configured.
const NotConfiguredMarker = "not configured"

// Summary aggregates the outcome of one pipeline invocation.
type Summary struct {
	Tag           string
	TagReused     bool
	ArchivePath   string
	RemoteURI     string
	UploadSkipped bool

	results []OperationResult
}

// Results returns the accumulated per-stage results in execution
// order.
func (s *Summary) Results() []OperationResult {
	return s.results
}

func (s *Summary) record(stage Stage, msg string) {
	s.results = append(s.results, OperationResult{Stage: stage, OK: true, Message: msg})
}

// Report renders the operator-facing summary: the tag, the local
// artifact path, and either the remote URI or an explicit
// "not configured" marker. It has no side effects.
func (s *Summary) Report() string {
	var b strings.Builder

	b.WriteString("release snapshot summary\n")

	tagLine := s.Tag
	if s.TagReused {
		tagLine += " (reused)"
	}
	fmt.Fprintf(&b, "  tag:     %s\n", tagLine)
	fmt.Fprintf(&b, "  archive: %s\n", valueOr(s.ArchivePath, "none"))

	remote := s.RemoteURI
	switch {
	case remote != "":
	case s.uploadFailed():
		remote = "upload failed, local archive retained"
	default:
		remote = NotConfiguredMarker
	}
	fmt.Fprintf(&b, "  remote:  %s\n", remote)

	for _, r := range s.results {
		mark := "ok"
		if !r.OK {
			mark = "FAILED"
		}
		fmt.Fprintf(&b, "  [%s] %-8s %s\n", mark, r.Stage, r.Message)
	}

	return b.String()
}

func (s *Summary) uploadFailed() bool {
	for _, r := range s.results {
		if r.Stage == StageUpload && !r.OK {
			return true
		}
	}
	return false
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
