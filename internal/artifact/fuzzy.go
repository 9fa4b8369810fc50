package artifact

import (
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

const (
	similarityThreshold = 70
	maxSuggestions      = 5
)

// Match is a file whose name resembles a requested one.
type Match struct {
	Path  string
	Score int
}

// FindSimilar walks dir recursively and returns every file whose base name
// scores at least 70 against the base name of target, best first. The target
// path itself is never reported.
func FindSimilar(target, dir string) []Match {
	targetName := filepath.Base(target)
	targetPath := filepath.Clean(target)

	var matches []Match
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than failing the lookup.
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == targetName && filepath.Clean(path) == targetPath {
			return nil
		}
		if score := TokenSortRatio(targetName, d.Name()); score >= similarityThreshold {
			matches = append(matches, Match{Path: path, Score: score})
		}
		return nil
	})

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// suggestAudioFiles narrows FindSimilar to audio/video files, at most five.
func suggestAudioFiles(target, dir string) []string {
	var out []string
	for _, m := range FindSimilar(target, dir) {
		if !IsAudioFile(m.Path) {
			continue
		}
		out = append(out, m.Path)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// TokenSortRatio scores two strings 0-100 ignoring token order and case.
func TokenSortRatio(a, b string) int {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	return ratio(sa, sb)
}

// sortedTokens lower-cases s, turns every rune that is not a letter, digit
// or underscore into a separator and joins the sorted tokens with spaces.
func sortedTokens(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// ratio is 100 * 2*LCS / (len(a)+len(b)), the indel similarity.
func ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(rb)]
	return int(math.Round(100 * float64(2*lcs) / float64(total)))
}
