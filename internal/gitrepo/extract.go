package gitrepo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FileChange records line-level churn for one path in a commit or range.
type FileChange struct {
	Path       string
	Insertions uint
	Deletions  uint
}

// CommitSummary is the fixed-shape record handed to the template renderer.
// It is built once per invocation and never mutated afterwards.
type CommitSummary struct {
	CommitHash   string
	ShortHash    string
	Message      string
	Author       string
	Date         string
	FilesChanged []FileChange
	Insertions   uint
	Deletions    uint
	FilesCount   uint
	DiffSummary  string
}

// Subject returns the first line of the commit message.
func (s CommitSummary) Subject() string {
	return firstLine(s.Message)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// FileList renders the changed files as newline-joined "path (+a/-d)" lines.
func (s CommitSummary) FileList() string {
	lines := make([]string, 0, len(s.FilesChanged))
	for _, fc := range s.FilesChanged {
		lines = append(lines, formatChange(fc))
	}
	return strings.Join(lines, "\n")
}

// Diff summary construction constants. The summary is a digest, not the raw
// diff: at most diffSummaryTopFiles per-file lines ordered by churn, the rest
// collapsed into a count marker, and a hard character cap so prompt size
// stays bounded no matter how large the commit is.
const (
	diffSummaryTopFiles  = 10
	diffSummaryMaxChars  = 2000
	diffSummaryTruncMark = "… [summary truncated]"
)

const fieldSep = "\x1f"

// Extract builds a CommitSummary for a single commit reference.
func (r *Repo) Extract(ctx context.Context, ref string) (CommitSummary, error) {
	sha, err := r.Resolve(ctx, ref)
	if err != nil {
		return CommitSummary{}, err
	}

	hash, author, date, message, err := r.commitHeader(ctx, sha)
	if err != nil {
		return CommitSummary{}, err
	}

	files, err := r.commitNumstat(ctx, sha)
	if err != nil {
		return CommitSummary{}, err
	}

	return newSummary(hash, message, author, date, files), nil
}

// ExtractRange builds one aggregated CommitSummary for a commit range such as
// HEAD~5..HEAD. Per-file stats are summed across the range with first-seen
// path order preserved; the message becomes the subject lines of every commit
// in the range, oldest first.
func (r *Repo) ExtractRange(ctx context.Context, rangeSpec string) (CommitSummary, error) {
	shas, err := r.RevList(ctx, rangeSpec)
	if err != nil {
		return CommitSummary{}, err
	}
	if len(shas) == 0 {
		return CommitSummary{}, &InvalidRefError{Ref: rangeSpec, Cause: fmt.Errorf("no commits in range")}
	}

	var (
		order    []string
		byPath   = map[string]*FileChange{}
		subjects []string
	)
	for _, sha := range shas {
		_, _, _, message, err := r.commitHeader(ctx, sha)
		if err != nil {
			return CommitSummary{}, err
		}
		subjects = append(subjects, firstLine(message))

		files, err := r.commitNumstat(ctx, sha)
		if err != nil {
			return CommitSummary{}, err
		}
		for _, fc := range files {
			if existing, ok := byPath[fc.Path]; ok {
				existing.Insertions += fc.Insertions
				existing.Deletions += fc.Deletions
				continue
			}
			copied := fc
			byPath[fc.Path] = &copied
			order = append(order, fc.Path)
		}
	}

	merged := make([]FileChange, 0, len(order))
	for _, path := range order {
		merged = append(merged, *byPath[path])
	}

	// Metadata comes from the newest commit so short_hash stays a usable ref.
	newest := shas[len(shas)-1]
	hash, author, date, _, err := r.commitHeader(ctx, newest)
	if err != nil {
		return CommitSummary{}, err
	}

	return newSummary(hash, strings.Join(subjects, "\n"), author, date, merged), nil
}

func newSummary(hash, message, author, date string, files []FileChange) CommitSummary {
	var insertions, deletions uint
	for _, fc := range files {
		insertions += fc.Insertions
		deletions += fc.Deletions
	}
	short := strings.ToLower(hash)
	if len(short) > 7 {
		short = short[:7]
	}
	return CommitSummary{
		CommitHash:   hash,
		ShortHash:    short,
		Message:      strings.TrimSpace(message),
		Author:       author,
		Date:         date,
		FilesChanged: files,
		Insertions:   insertions,
		Deletions:    deletions,
		FilesCount:   uint(len(files)),
		DiffSummary:  buildDiffSummary(files),
	}
}

func (r *Repo) commitHeader(ctx context.Context, sha string) (hash, author, date, message string, err error) {
	out, err := r.Run(ctx, "show", "-s", "--format=%H%x1f%an <%ae>%x1f%aI%x1f%B", sha)
	if err != nil {
		return "", "", "", "", err
	}
	parts := strings.SplitN(out, fieldSep, 4)
	if len(parts) != 4 {
		return "", "", "", "", fmt.Errorf("unexpected git show output for %s", sha)
	}
	return strings.TrimSpace(parts[0]), parts[1], parts[2], strings.TrimSpace(parts[3]), nil
}

func (r *Repo) commitNumstat(ctx context.Context, sha string) ([]FileChange, error) {
	// --format= drops the header so only numstat lines remain. Root commits
	// are diffed against the empty tree by git itself.
	out, err := r.Run(ctx, "show", "--numstat", "--format=", "--no-color", "--find-renames", sha)
	if err != nil {
		return nil, err
	}
	return parseNumstat(out), nil
}

// parseNumstat reads "insertions<TAB>deletions<TAB>path" lines. Binary files
// report "-" for both counters and contribute zero churn.
func parseNumstat(out string) []FileChange {
	var files []FileChange
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		files = append(files, FileChange{
			Path:       fields[2],
			Insertions: parseCount(fields[0]),
			Deletions:  parseCount(fields[1]),
		})
	}
	return files
}

func parseCount(s string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// buildDiffSummary produces the bounded digest described above. The output is
// deterministic for a given file list.
func buildDiffSummary(files []FileChange) string {
	shown := files
	var more int
	if len(files) > diffSummaryTopFiles {
		ranked := make([]FileChange, len(files))
		copy(ranked, files)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Insertions+ranked[i].Deletions > ranked[j].Insertions+ranked[j].Deletions
		})
		shown = ranked[:diffSummaryTopFiles]
		more = len(files) - diffSummaryTopFiles
	}

	lines := make([]string, 0, len(shown)+1)
	for _, fc := range shown {
		lines = append(lines, formatChange(fc))
	}
	if more > 0 {
		lines = append(lines, fmt.Sprintf("(+%d more files)", more))
	}

	summary := strings.Join(lines, "\n")
	if len(summary) <= diffSummaryMaxChars {
		return summary
	}
	head := summary[:diffSummaryMaxChars-len(diffSummaryTruncMark)-1]
	if idx := strings.LastIndexByte(head, '\n'); idx > 0 {
		head = head[:idx]
	}
	return head + "\n" + diffSummaryTruncMark
}

func formatChange(fc FileChange) string {
	return fmt.Sprintf("%s (+%d/-%d)", fc.Path, fc.Insertions, fc.Deletions)
}
