package prompt

import (
	"fmt"
	"os"
	"path/filepath"
)

// builtinYAML is the library shipped with the binary. `buildpost config init`
// writes it to ~/.buildpost/prompts.yaml so users can edit it.
const builtinYAML = `styles:
  casual:
    name: Casual
    description: Friendly, first-person build-in-public voice
    system: |
      You are a developer sharing progress on a side project. Write like you
      talk: short sentences, first person, no corporate tone. Do not add
      hashtags yourself. Output only the post text.
    template: |
      Write a casual social media post about this commit.

      Commit message: {commit_message}
      Changes ({files_count} files, +{insertions}/-{deletions}):
      {diff_summary}
  professional:
    name: Professional
    description: Polished voice for a work or company account
    system: |
      You are writing for a professional engineering account. Be clear and
      factual, highlight the user-facing impact of the change, and avoid
      exclamation marks and emojis. Output only the post text.
    template: |
      Write a professional update about this change.

      Author: {author}
      Date: {date}
      Commit {short_hash}: {commit_message}
      Files changed:
      {files_changed}
  technical:
    name: Technical
    description: Precise, detail-first voice for developer audiences
    system: |
      You are a senior engineer summarizing a change for other engineers.
      Name the touched areas precisely, mention the line counts when they
      matter, and never speculate beyond what the diff shows. Output only
      the post text.
    template: |
      Summarize this commit for a developer audience.

      Commit {commit_hash}
      Message: {commit_message}
      Diff digest:
      {diff_summary}

platforms:
  twitter:
    name: Twitter/X
    max_length: 280
    guidelines:
      - Lead with the change, not the greeting
      - One thought per post
    default_hashtags:
      - "#BuildInPublic"
      - "#coding"
  linkedin:
    name: LinkedIn
    max_length: 3000
    guidelines:
      - Open with the problem the change solves
      - Paragraph breaks every two or three sentences
    default_hashtags:
      - "#SoftwareEngineering"
      - "#BuildInPublic"
      - "#Tech"
  devto:
    name: Dev.to
    max_length: 1000
    guidelines:
      - Write for developers; jargon is fine
    default_hashtags:
      - "#programming"
      - "#opensource"
  generic:
    name: Generic
    max_length: 500

defaults:
  style: casual
  platform: twitter
`

// Builtin parses the compiled-in library through the same code path as a
// user file, so it is validated like one.
func Builtin() (*Library, error) {
	return parse([]byte(builtinYAML), "builtin prompts")
}

// WriteDefault materializes the builtin library at path unless a file is
// already there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prompts dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(builtinYAML), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
