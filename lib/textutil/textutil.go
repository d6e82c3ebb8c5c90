package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// DigitFilter strips every non decimal digit character from s and parses
// whatever remains as a non-negative integer. An empty remainder yields 0.
// It never fails, marketplace text like "750 000 ₸" or "45 000 км" comes
// through here.
func DigitFilter(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// digits longer than an int, saturate rather than fail
		return int(^uint(0) >> 1)
	}
	return n
}

// Slugify joins the given parts into a url-safe, lowercase, hyphenated
// token. Only ASCII letters and digits survive, any run of other
// characters collapses into a single hyphen.
func Slugify(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "-"))

	var out strings.Builder
	pendingHyphen := false
	for _, r := range joined {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			if out.Len() > 0 {
				pendingHyphen = true
			}
			continue
		}
		if pendingHyphen {
			out.WriteByte('-')
			pendingHyphen = false
		}
		out.WriteRune(r)
	}
	return out.String()
}
