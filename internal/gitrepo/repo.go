package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrNotARepository reports that the working directory is not inside a git
// repository.
var ErrNotARepository = errors.New("not a git repository")

// InvalidRefError reports a commit reference or range that git could not
// resolve.
type InvalidRefError struct {
	Ref   string
	Cause error
}

func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("invalid commit reference %q: provide a valid commit hash, branch, tag or range", e.Ref)
}

func (e *InvalidRefError) Unwrap() error { return e.Cause }

// Repo wraps the system git binary rooted at a repository path.
type Repo struct {
	path   string
	runner Runner
}

// Open validates that path belongs to a git work tree and returns a Repo.
func Open(ctx context.Context, path string) (*Repo, error) {
	r := &Repo{path: path, runner: Runner{Timeout: 2 * time.Minute}}
	if _, err := r.runner.Git(ctx, path, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
	}
	return r, nil
}

type Runner struct {
	Timeout time.Duration
}

func (r Runner) Git(ctx context.Context, dir string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, "git", args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Start(); err != nil {
		return "", formatGitError(args, err, stderr.String())
	}
	done := make(chan error, 1)
	go func() { done <- c.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return "", formatGitError(args, err, stderr.String())
		}
		return stdout.String(), nil
	case <-time.After(r.Timeout):
		_ = c.Process.Kill()
		<-done
		return "", formatGitError(args, fmt.Errorf("command timed out after %s", r.Timeout), stderr.String())
	case <-ctx.Done():
		_ = c.Process.Kill()
		<-done
		cause := ctx.Err()
		if cause == nil {
			cause = errors.New("context canceled")
		}
		return "", formatGitError(args, cause, stderr.String())
	}
}

func formatGitError(args []string, cause error, stderr string) error {
	cmd := strings.Join(args, " ")
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("git %s: %w: %s", cmd, cause, stderr)
	}
	return fmt.Errorf("git %s: %w", cmd, cause)
}

// Run executes an arbitrary git subcommand in the repo path.
func (r *Repo) Run(ctx context.Context, args ...string) (string, error) {
	return r.runner.Git(ctx, r.path, args...)
}

// Resolve turns a ref (hash, branch, tag, HEAD) into a full commit SHA.
func (r *Repo) Resolve(ctx context.Context, ref string) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", &InvalidRefError{Ref: ref, Cause: err}
	}
	sha := strings.TrimSpace(out)
	if sha == "" {
		return "", &InvalidRefError{Ref: ref}
	}
	return sha, nil
}

// RevList enumerates the commits of a range oldest-first.
func (r *Repo) RevList(ctx context.Context, rangeSpec string) ([]string, error) {
	out, err := r.Run(ctx, "rev-list", "--reverse", rangeSpec)
	if err != nil {
		return nil, &InvalidRefError{Ref: rangeSpec, Cause: err}
	}
	var shas []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			shas = append(shas, line)
		}
	}
	return shas, nil
}

// RemoteURL returns the origin remote URL, or "" when none is configured.
func (r *Repo) RemoteURL(ctx context.Context) string {
	out, err := r.Run(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// HeadSHA resolves HEAD to a full commit SHA.
func (r *Repo) HeadSHA(ctx context.Context) (string, error) {
	return r.Resolve(ctx, "HEAD")
}
