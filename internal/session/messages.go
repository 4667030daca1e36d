package session

import (
	"github.com/foxseedlab/mensetsu/internal/discord"
	"github.com/foxseedlab/mensetsu/internal/interview"
)

const (
	SlashCommandStart = "start"
	SlashCommandStop  = "stop"
	SlashCommandHelp  = "help"

	slashCommandStartDescription = "Начать собеседование"
	slashCommandStopDescription  = "Завершить собеседование"
	slashCommandHelpDescription  = "Справка"

	messageWelcome = `🤖 Добро пожаловать в бот для проведения собеседований!

Выберите режим собеседования:

🤝 **Миссис Хоуп** - дружелюбный менеджер по персоналу
• Можно выбрать русский или английский язык
• Поддерживающая атмосфера
• Помощь с переводом слов

👨‍🏫 **Преподаватель английского** - для студентов уровня A1
• Только английский язык
• Анализ грамматических и лексических ошибок
• Исправленная версия ответов после каждого сообщения
• Рекомендуется для начинающих изучать английский

Выберите режим:`

	messageHelp = `🤖 **Доступные команды:**
/start - Начать собеседование
/stop - Завершить собеседование
/help - Показать эту справку

📋 **Во время собеседования вы можете:**
• Отвечать на вопросы рекрутера
• Задавать уточняющие вопросы
• Просить перевести английские слова
• Завершить собеседование командой /stop или написав "стоп"

📄 **После завершения вы получите аналитический отчет в формате DOCX**`

	messageHopeSelected    = "🤝 Выбран режим: Миссис Хоуп\n\nТеперь выберите язык собеседования:"
	messageTeacherSelected = "👨‍🏫 Выбран режим: Преподаватель английского\n\nЯзык собеседования: Английский\n\nТеперь выберите тип собеседования:"
	messageRussianSelected = "🇷🇺 Выбран язык: Русский\n\nТеперь выберите тип собеседования:"
	messageEnglishSelected = "🇬🇧 Выбран язык: Английский\n\nТеперь выберите тип собеседования:"
	messageAskName         = "Как я могу к вам обращаться? (Введите ваше имя)"

	messageThinking           = "🤔 Бот думает..."
	messageInitFailed         = "Извините, произошла ошибка при инициализации собеседования."
	messageNotActive          = "Собеседование не активно. Используйте /start для начала."
	messageStartFirst         = "Пожалуйста, начните собеседование командой /start"
	messageFinishSetup        = "Пожалуйста, завершите настройку собеседования, выбрав режим, язык и тип собеседования."
	messageSelectionStale     = "Этот выбор больше недоступен. Начните заново командой /start"
	messageFinishing          = "Завершаю собеседование..."
	messageGeneratingReport   = "Генерирую аналитический отчет..."
	messageReportCaption      = "Ваш отчет по собеседованию готов!"
	messageReportFailed       = "Извините, произошла ошибка при генерации отчета."
	messageInterviewCompleted = "Собеседование завершено. Спасибо за участие!"
	messageStartAgain         = "Для начала нового собеседования нажмите /start"
	messageUnknownCommand     = "Неизвестная команда. Используйте /help."
	messageWrongChannel       = "Здесь собеседование не проводится. Напишите боту в личные сообщения или в канал для собеседований."
)

func categorySelectedMessage(category interview.Category) string {
	switch category {
	case interview.CategoryHard:
		return "💻 Выбран тип: Hard Skills (технические навыки)\n\n" + messageAskName
	case interview.CategoryExperience:
		return "📋 Выбран тип: Experience (опыт работы)\n\n" + messageAskName
	default:
		return "💬 Выбран тип: Soft Skills (мягкие навыки)\n\n" + messageAskName
	}
}

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{Name: SlashCommandStart, Description: slashCommandStartDescription},
		{Name: SlashCommandStop, Description: slashCommandStopDescription},
		{Name: SlashCommandHelp, Description: slashCommandHelpDescription},
	}
}
