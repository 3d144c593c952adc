package prompt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
	"workbook_coach_backend/internal/model"
)

// NoAnswersProvided is returned by FormatAnswers when nothing survives filtering.
const NoAnswersProvided = "No answers provided."

var (
	// a pillar number between separators; "_" counts as one, like in answer keys
	pillarInfix = regexp.MustCompile(`(^|[\s_])p\d+([\s_]|$)`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// FormatAnswers renders answers as "**Label**: value" blocks separated by
// blank lines, in insertion order. Null and empty-string answers are skipped.
func FormatAnswers(answers model.Answers) string {
	blocks := make([]string, 0, answers.Len())
	for _, key := range answers.Keys() {
		v, _ := answers.Get(key)
		if v.IsBlank() {
			continue
		}
		blocks = append(blocks, "**"+QuestionLabel(key)+"**: "+v.String())
	}
	if len(blocks) == 0 {
		return NoAnswersProvided
	}
	return strings.Join(blocks, "\n\n")
}

// QuestionLabel turns a question id like "p3-team-trust" into "Team trust".
func QuestionLabel(key string) string {
	label := strings.ReplaceAll(key, "-", " ")
	label = stripPillarInfixes(label)
	label = strings.TrimSpace(spaceRun.ReplaceAllString(label, " "))
	if label == "" {
		return key
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// stripPillarInfixes removes every pN token and keeps one separator where it
// sat between two words. Adjacent tokens share a separator, so it repeats
// until nothing matches.
func stripPillarInfixes(label string) string {
	for pillarInfix.MatchString(label) {
		label = pillarInfix.ReplaceAllStringFunc(label, func(m string) string {
			parts := pillarInfix.FindStringSubmatch(m)
			if parts[1] != "" && parts[2] != "" {
				return parts[1]
			}
			return ""
		})
	}
	return label
}
