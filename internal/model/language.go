package model

// Language describes one entry of the supported-language catalog.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// Languages is the fixed catalog offered at onboarding and in settings.
var Languages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
	{Code: "ko", Name: "Korean", NativeName: "한국어"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "it", Name: "Italian", NativeName: "Italiano"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "ru", Name: "Russian", NativeName: "Русский"},
}

const (
	DefaultNativeLang = "en"
	DefaultTargetLang = "ja"
)

// LookupLanguage returns the catalog entry for code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// IsSupportedLanguage reports whether code is in the catalog.
func IsSupportedLanguage(code string) bool {
	_, ok := LookupLanguage(code)
	return ok
}

// LanguageName returns the English name for code, or code itself when unknown.
// Prompts use the name so the model sees "Japanese" rather than "ja".
func LanguageName(code string) string {
	if l, ok := LookupLanguage(code); ok {
		return l.Name
	}
	return code
}

// LanguagePref is the user's native/target pair.
type LanguagePref struct {
	NativeCode string `json:"nativeLang"`
	TargetCode string `json:"targetLang"`
}

// DefaultLanguagePref returns the pair used before onboarding.
func DefaultLanguagePref() LanguagePref {
	return LanguagePref{NativeCode: DefaultNativeLang, TargetCode: DefaultTargetLang}
}

// Swapped returns the pair with native and target exchanged.
func (p LanguagePref) Swapped() LanguagePref {
	return LanguagePref{NativeCode: p.TargetCode, TargetCode: p.NativeCode}
}

// Valid reports whether both codes are in the catalog.
func (p LanguagePref) Valid() bool {
	return IsSupportedLanguage(p.NativeCode) && IsSupportedLanguage(p.TargetCode)
}
