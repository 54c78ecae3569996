package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_value":        "{key} must be a finite integer",
		"invalid_positive":     "{key} must be a positive integer",
		"type_error":           "{key} must be a string",
		"type_error_number":    "{key} cannot be converted to a number",
		"missing_required":     "property {key} is required",
		"duplicate_field":      "duplicate field name {key}",
		"reserved_field":       "invalid field name {key}",
		"no_recognized_fields": "object must have at least one recognized field",
		"property_access":      "accessing property {key} failed",
		"parse_error":          "parse error",
		"duplicate_key":        "duplicate key",
		"truncated":            "truncated",
	},
	"ja": {
		"invalid_value":        "{key} は有限の整数である必要があります",
		"invalid_positive":     "{key} は正の整数である必要があります",
		"type_error":           "{key} は文字列である必要があります",
		"type_error_number":    "{key} を数値に変換できません",
		"missing_required":     "必須プロパティ {key} が不足しています",
		"duplicate_field":      "フィールド名 {key} が重複しています",
		"reserved_field":       "フィールド名 {key} は使用できません",
		"no_recognized_fields": "認識できるフィールドが少なくとも1つ必要です",
		"property_access":      "プロパティ {key} へのアクセスに失敗しました",
		"parse_error":          "解析エラー",
		"duplicate_key":        "キーが重複しています",
		"truncated":            "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
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
