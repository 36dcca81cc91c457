package locale

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	English = language.English
	Chinese = language.Chinese
)

var matcher = language.NewMatcher([]language.Tag{English, Chinese})

// Text holds a display string in every language the league publishes.
type Text struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

func (t Text) IsZero() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.ZH) == ""
}

// In returns the text for tag, falling back to whichever language is filled.
func (t Text) In(tag language.Tag) string {
	if isChinese(tag) {
		if strings.TrimSpace(t.ZH) != "" {
			return t.ZH
		}
		return t.EN
	}
	if strings.TrimSpace(t.EN) != "" {
		return t.EN
	}
	return t.ZH
}

func (t Text) Trimmed() Text {
	return Text{EN: strings.TrimSpace(t.EN), ZH: strings.TrimSpace(t.ZH)}
}

// Match picks the supported language for the given preferences. Each candidate may
// be a bare tag ("zh") or a full Accept-Language header. English wins when nothing matches.
func Match(candidates ...string) language.Tag {
	prefs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			prefs = append(prefs, c)
		}
	}
	if len(prefs) == 0 {
		return English
	}

	_, idx := language.MatchStrings(matcher, prefs...)
	if idx == 1 {
		return Chinese
	}
	return English
}

func isChinese(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "zh"
}
