package models

// Language is a translation target offered by the API.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Languages is the catalog of supported translation targets, in display order.
var Languages = []Language{
	{Code: "en", Name: "Inglês", Flag: "🇺🇸"},
	{Code: "es", Name: "Espanhol", Flag: "🇪🇸"},
	{Code: "fr", Name: "Francês", Flag: "🇫🇷"},
	{Code: "de", Name: "Alemão", Flag: "🇩🇪"},
	{Code: "it", Name: "Italiano", Flag: "🇮🇹"},
	{Code: "pt", Name: "Português", Flag: "🇧🇷"},
	{Code: "ru", Name: "Russo", Flag: "🇷🇺"},
	{Code: "ja", Name: "Japonês", Flag: "🇯🇵"},
	{Code: "ko", Name: "Coreano", Flag: "🇰🇷"},
	{Code: "zh", Name: "Chinês", Flag: "🇨🇳"},
	{Code: "ar", Name: "Árabe", Flag: "🇸🇦"},
	{Code: "hi", Name: "Hindi", Flag: "🇮🇳"},
	{Code: "nl", Name: "Holandês", Flag: "🇳🇱"},
	{Code: "sv", Name: "Sueco", Flag: "🇸🇪"},
	{Code: "no", Name: "Norueguês", Flag: "🇳🇴"},
	{Code: "da", Name: "Dinamarquês", Flag: "🇩🇰"},
	{Code: "fi", Name: "Finlandês", Flag: "🇫🇮"},
	{Code: "pl", Name: "Polonês", Flag: "🇵🇱"},
	{Code: "tr", Name: "Turco", Flag: "🇹🇷"},
	{Code: "el", Name: "Grego", Flag: "🇬🇷"},
	{Code: "he", Name: "Hebraico", Flag: "🇮🇱"},
	{Code: "th", Name: "Tailandês", Flag: "🇹🇭"},
	{Code: "vi", Name: "Vietnamita", Flag: "🇻🇳"},
	{Code: "id", Name: "Indonésio", Flag: "🇮🇩"},
	{Code: "ms", Name: "Malaio", Flag: "🇲🇾"},
	{Code: "uk", Name: "Ucraniano", Flag: "🇺🇦"},
	{Code: "cs", Name: "Tcheco", Flag: "🇨🇿"},
	{Code: "hu", Name: "Húngaro", Flag: "🇭🇺"},
	{Code: "ro", Name: "Romeno", Flag: "🇷🇴"},
	{Code: "bg", Name: "Búlgaro", Flag: "🇧🇬"},
}

// LanguageByCode looks up a catalog entry by its code.
func LanguageByCode(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
