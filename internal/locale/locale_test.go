package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/training-crm-api/internal/models"
)

func TestParse(t *testing.T) {
	cases := map[string]Language{
		"ky":    Kyrgyz,
		"ru-RU": Russian,
		"EN":    English,
		"en-GB": English,
	}
	for raw, want := range cases {
		got, ok := Parse(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := Parse("")
	assert.False(t, ok)
	_, ok = Parse("not a tag!")
	assert.False(t, ok)
}

func TestResolvePrecedence(t *testing.T) {
	assert.Equal(t, English, Resolve("en", "ru", "ky", "ky"))
	assert.Equal(t, Russian, Resolve("", "ru-RU,ru;q=0.9", "en", "ky"))
	assert.Equal(t, English, Resolve("", "", "en", "ky"))
	assert.Equal(t, Russian, Resolve("", "", "", "ru"))
	assert.Equal(t, Kyrgyz, Resolve("", "", "", ""))
}

func TestDayNames(t *testing.T) {
	assert.Equal(t, "Дүйшөмбү", For(Kyrgyz).DayName(models.Monday))
	assert.Equal(t, "Воскресенье", For(Russian).DayName(models.Sunday))
	assert.Equal(t, "Friday", For(English).DayName(models.Friday))
	assert.Equal(t, "Someday", For(English).DayName(models.Weekday("Someday")))
}

func TestCatalogueIsComplete(t *testing.T) {
	for _, lang := range Supported {
		m := For(lang)
		assert.Len(t, m.Days, len(models.Week), lang)
		assert.Len(t, m.Suggestions, 4, lang)
		assert.NotEmpty(t, m.AIFailure, lang)
		assert.Contains(t, m.SystemInstruction, "training center", lang)
	}
	assert.Equal(t, Kyrgyz, For(Language("de")).Language)
}
