package chat

import "github.com/nhle/campuscalm-widgets/internal/locale"

const (
	legacyGreetingPT = "Oi! Quer organizar o que esta te preocupando agora?"
	legacyGreetingEN = "Hi! Want to organize what's worrying you right now?"

	greetingPT = legacyGreetingPT + "\nSe voce quiser, eu te ajudo a transformar isso em 10 minutos de acao."
	greetingEN = legacyGreetingEN + "\nIf you want, I can help you turn this into 10 minutes of action."
)

// Greeting returns the bot message a fresh conversation is seeded with.
func Greeting(loc locale.Locale) string {
	return loc.Pick(greetingPT, greetingEN)
}

// LegacyGreeting returns the seed text older sessions were created with.
func LegacyGreeting(loc locale.Locale) string {
	return loc.Pick(legacyGreetingPT, legacyGreetingEN)
}
