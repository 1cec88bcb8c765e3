package prompt

import (
	"regexp"
	"strconv"

	"github.com/roivaz/buildpost/internal/gitrepo"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// recognizedVars is the fixed set of template variables. Anything else in a
// style's system or template text is a configuration error.
var recognizedVars = map[string]bool{
	"commit_message": true,
	"commit_hash":    true,
	"short_hash":     true,
	"author":         true,
	"date":           true,
	"files_changed":  true,
	"diff_summary":   true,
	"insertions":     true,
	"deletions":      true,
	"files_count":    true,
}

// ValidateStyle checks that every placeholder in the style's system and
// template texts is recognized, naming the first offender.
func ValidateStyle(st Style) error {
	for _, text := range []string{st.System, st.Template} {
		for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			if !recognizedVars[match[1]] {
				return &UnknownPlaceholderError{Style: st.Key, Name: match[1]}
			}
		}
	}
	return nil
}

// Render substitutes the summary's values into the style's system and
// template texts. Substitution is a single pass: values are inserted
// literally and never rescanned, so a value containing "{...}" stays
// verbatim.
func Render(st Style, summary gitrepo.CommitSummary) (system, user string, err error) {
	if err := ValidateStyle(st); err != nil {
		return "", "", err
	}
	vars := variables(summary)
	return substitute(st.System, vars), substitute(st.Template, vars), nil
}

func substitute(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		return vars[m[1:len(m)-1]]
	})
}

func variables(s gitrepo.CommitSummary) map[string]string {
	return map[string]string{
		"commit_message": s.Message,
		"commit_hash":    s.CommitHash,
		"short_hash":     s.ShortHash,
		"author":         s.Author,
		"date":           s.Date,
		"files_changed":  s.FileList(),
		"diff_summary":   s.DiffSummary,
		"insertions":     strconv.FormatUint(uint64(s.Insertions), 10),
		"deletions":      strconv.FormatUint(uint64(s.Deletions), 10),
		"files_count":    strconv.FormatUint(uint64(s.FilesCount), 10),
	}
}
