// Package locale holds the closed set of user-facing strings the API produces
// and resolves the caller's language once per request.
package locale

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/noah-isme/training-crm-api/internal/models"
)

// Language is a supported UI language code.
type Language string

const (
	Kyrgyz  Language = "ky"
	Russian Language = "ru"
	English Language = "en"
)

// Supported lists the languages in matcher preference order.
var Supported = []Language{Kyrgyz, Russian, English}

// Messages is the catalogue of strings for one language.
type Messages struct {
	Language          Language
	Days              map[models.Weekday]string
	SystemInstruction string
	AIFailure         string
	AIEmpty           string
	Greeting          string
	Suggestions       []string
}

// DayName returns the localized weekday, falling back to the stored value.
func (m Messages) DayName(day models.Weekday) string {
	if name, ok := m.Days[day]; ok {
		return name
	}
	return string(day)
}

const systemInstruction = "You are an AI advisor for an IT training center. Provide data-driven insights about students, curriculum optimization, and sales growth. Respond in %s."

var catalogue = map[Language]Messages{
	Kyrgyz: {
		Language: Kyrgyz,
		Days: map[models.Weekday]string{
			models.Monday:    "Дүйшөмбү",
			models.Tuesday:   "Шейшемби",
			models.Wednesday: "Шаршемби",
			models.Thursday:  "Бейшемби",
			models.Friday:    "Жума",
			models.Saturday:  "Ишемби",
			models.Sunday:    "Жекшемби",
		},
		SystemInstruction: strings.Replace(systemInstruction, "%s", "Kyrgyz", 1),
		AIFailure:         "AI кызматында ката кетти. Сураныч, бир аздан кийин кайталаңыз.",
		AIEmpty:           "Кечириңиз, суроого жооп бере албай жатам.",
		Greeting:          "Саламатсызбы! Мен CRM акылдуу жардамчысымын. Сизге студенттердин жетишкендиктерин талдоо же академияны өнүктүрүү боюнча кандай жардам бере алам?",
		Suggestions: []string{
			"Студенттердин санын кантип көбөйтсө болот?",
			"Акыркы айдагы кирешени талдап бер",
			"Кетүү коркунучу бар студенттерди аныктоо",
			"Маркетинг стратегиясы боюнча кеңеш",
		},
	},
	Russian: {
		Language: Russian,
		Days: map[models.Weekday]string{
			models.Monday:    "Понедельник",
			models.Tuesday:   "Вторник",
			models.Wednesday: "Среда",
			models.Thursday:  "Четверг",
			models.Friday:    "Пятница",
			models.Saturday:  "Суббота",
			models.Sunday:    "Воскресенье",
		},
		SystemInstruction: strings.Replace(systemInstruction, "%s", "Russian", 1),
		AIFailure:         "В работе AI-сервиса произошла ошибка. Пожалуйста, повторите попытку чуть позже.",
		AIEmpty:           "Извините, не могу ответить на этот вопрос.",
		Greeting:          "Здравствуйте! Я умный помощник CRM. Чем могу помочь в анализе успеваемости студентов или развитии академии?",
		Suggestions: []string{
			"Как увеличить количество студентов?",
			"Проанализируй доход за последний месяц",
			"Определи студентов с риском ухода",
			"Совет по маркетинговой стратегии",
		},
	},
	English: {
		Language: English,
		Days: map[models.Weekday]string{
			models.Monday:    "Monday",
			models.Tuesday:   "Tuesday",
			models.Wednesday: "Wednesday",
			models.Thursday:  "Thursday",
			models.Friday:    "Friday",
			models.Saturday:  "Saturday",
			models.Sunday:    "Sunday",
		},
		SystemInstruction: strings.Replace(systemInstruction, "%s", "English", 1),
		AIFailure:         "The AI service ran into an error. Please try again in a moment.",
		AIEmpty:           "Sorry, I cannot answer that question right now.",
		Greeting:          "Hello! I am the CRM assistant. How can I help you analyse student progress or grow the academy?",
		Suggestions: []string{
			"How can we grow the number of students?",
			"Analyse last month's revenue",
			"Identify students at risk of dropping out",
			"Advice on marketing strategy",
		},
	},
}

var (
	tags    = []language.Tag{language.Make(string(Kyrgyz)), language.Russian, language.English}
	matcher = language.NewMatcher(tags)
)

// For returns the catalogue for lang, or the Kyrgyz one for unknown values.
func For(lang Language) Messages {
	if m, ok := catalogue[lang]; ok {
		return m
	}
	return catalogue[Kyrgyz]
}

// Parse maps a free-form tag such as "ru-RU" or "EN" onto a supported language.
func Parse(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence < language.High {
		return "", false
	}
	return Supported[idx], true
}

// Resolve picks the request language: explicit query value first, then the
// Accept-Language header, then the stored preference, then fallback.
func Resolve(query, acceptLanguage, stored, fallback string) Language {
	if lang, ok := Parse(query); ok {
		return lang
	}
	if acceptLanguage != "" {
		if prefs, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(prefs) > 0 {
			_, idx, confidence := matcher.Match(prefs...)
			if confidence >= language.High {
				return Supported[idx]
			}
		}
	}
	if lang, ok := Parse(stored); ok {
		return lang
	}
	if lang, ok := Parse(fallback); ok {
		return lang
	}
	return Kyrgyz
}
