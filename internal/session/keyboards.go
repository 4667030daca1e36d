package session

import (
	"github.com/foxseedlab/mensetsu/internal/discord"
	"github.com/foxseedlab/mensetsu/internal/interview"
)

const (
	buttonModeHope       = "mode_hope"
	buttonModeTeacher    = "mode_teacher"
	buttonLangRussian    = "lang_russian"
	buttonLangEnglish    = "lang_english"
	buttonTypeSoft       = "type_soft"
	buttonTypeHard       = "type_hard"
	buttonTypeExperience = "type_experience"
)

var (
	modeKeyboard = [][]discord.Button{
		{{CustomID: buttonModeHope, Label: "🤝 Миссис Хоуп (дружелюбный менеджер)"}},
		{{CustomID: buttonModeTeacher, Label: "👨‍🏫 Преподаватель английского (для уровня A1)"}},
	}
	languageKeyboard = [][]discord.Button{
		{{CustomID: buttonLangRussian, Label: "🇷🇺 Русский"}},
		{{CustomID: buttonLangEnglish, Label: "🇬🇧 Английский"}},
	}
	categoryKeyboard = [][]discord.Button{
		{{CustomID: buttonTypeSoft, Label: "💬 Soft Skills (мягкие навыки)"}},
		{{CustomID: buttonTypeHard, Label: "💻 Hard Skills (технические навыки)"}},
		{{CustomID: buttonTypeExperience, Label: "📋 Experience (опыт работы)"}},
	}
)

var (
	buttonPersonas = map[string]interview.Persona{
		buttonModeHope:    interview.PersonaHope,
		buttonModeTeacher: interview.PersonaTeacher,
	}
	buttonLanguages = map[string]interview.Language{
		buttonLangRussian: interview.LanguageRussian,
		buttonLangEnglish: interview.LanguageEnglish,
	}
	buttonCategories = map[string]interview.Category{
		buttonTypeSoft:       interview.CategorySoft,
		buttonTypeHard:       interview.CategoryHard,
		buttonTypeExperience: interview.CategoryExperience,
	}
)
