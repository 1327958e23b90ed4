package i18n

import "strings"

// Translator retrieves localized messages for violation codes. data provides
// optional values substituted for {name}-style placeholders in the phrase.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := phrase(t.lang, code)
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

func phrase(lang, code string) string {
	switch lang {
	case "ja":
		switch code {
		case "argument_mismatch":
			return "引数 {name} = {value} がシグネチャ {signature} に一致しません"
		case "keyword_mismatch":
			return "キーワード引数 {name} = {value} がシグネチャ {signature} に一致しません"
		case "unexpected_keyword":
			return "未知のキーワード引数 {name} です"
		case "return_mismatch":
			return "戻り値 {value} がシグネチャ {signature} に一致しません"
		case "missing_return":
			return "非 void 関数が値を返しませんでした"
		case "void_return":
			return "void 関数が値を返しました"
		case "invalid_signature":
			return "型シグネチャが不正です"
		case "signature_mismatch":
			return "注釈が関数シグネチャに一致しません"
		case "ordering":
			return "Returns は Params より先に適用してください"
		case "annotation_missing":
			return "契約を導出できる引数も戻り値もありません"
		}
	default: // "en"
		switch code {
		case "argument_mismatch":
			return "argument {name} = {value} doesn't match signature {signature}"
		case "keyword_mismatch":
			return "keyword argument {name} = {value} doesn't match signature {signature}"
		case "unexpected_keyword":
			return "unknown keyword argument {name} (positional specified as keyword?)"
		case "return_mismatch":
			return "function returned value {value} not matching signature {signature}"
		case "missing_return":
			return "non-void function didn't return a value"
		case "void_return":
			return "void function returned a value"
		case "invalid_signature":
			return "invalid type signature"
		case "signature_mismatch":
			return "annotation doesn't match function signature"
		case "ordering":
			return "Returns must be applied before Params"
		case "annotation_missing":
			return "function has neither parameters nor results to derive a contract from"
		}
	}
	return code
}

var current Translator = dictTranslator{lang: "en"}

// SetLanguage selects the built-in dictionary for the given language tag.
// Like the reporting policy, it is meant to be configured once at startup.
func SetLanguage(lang string) { current = dictTranslator{lang: lang} }

// SetTranslator installs a custom Translator, replacing the built-in one.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current = tr
}

// T resolves code through the current Translator.
func T(code string, data map[string]string) string { return current.Message(code, data) }
