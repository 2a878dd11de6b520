package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "min"). Placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type, expected {expected}",
		"required":       "required property missing",
		"unknown_key":    "unknown key",
		"too_small":      "must be >= {min}",
		"too_big":        "must be <= {max}",
		"too_short":      "too short, min {min}",
		"too_long":       "too long, max {max}",
		"pattern":        "does not match pattern {pattern}",
		"invalid_enum":   "must be one of {allowed}",
		"invalid_format": "invalid {format}",
		"parse_error":    "parse error",
		"uniqueness":     "duplicate value",
	},
	"ja": {
		"invalid_type":   "型が不正です（期待値: {expected}）",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"too_small":      "{min} 以上である必要があります",
		"too_big":        "{max} 以下である必要があります",
		"too_short":      "短すぎます（最小 {min}）",
		"too_long":       "長すぎます（最大 {max}）",
		"pattern":        "パターン {pattern} に一致しません",
		"invalid_enum":   "{allowed} のいずれかである必要があります",
		"invalid_format": "{format} の形式が不正です",
		"parse_error":    "解析エラー",
		"uniqueness":     "値が重複しています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return fill(msg, data)
}

// fill substitutes {name} placeholders; unresolved placeholders are cut along
// with any surrounding qualifier text.
func fill(msg string, data map[string]string) string {
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	if i := strings.IndexByte(msg, '{'); i >= 0 {
		msg = strings.TrimRight(msg[:i], " ,:（(、")
		msg = strings.TrimSuffix(strings.TrimSuffix(msg, ", expected"), "（期待値")
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
