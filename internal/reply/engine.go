// Package reply generates the deterministic replies the chat widget shows
// when the remote chat service cannot answer.
package reply

import (
	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/textmatch"
)

// Category names the branch a message was classified into.
type Category string

const (
	CategoryAnxiety       Category = "anxiety"
	CategoryFatigue       Category = "fatigue"
	CategoryDistraction   Category = "distraction"
	CategoryComprehension Category = "comprehension"
	CategoryGeneric       Category = "generic"
)

// rules are evaluated top to bottom; the first match wins.
var rules = []textmatch.Rule{
	{
		Name: string(CategoryAnxiety),
		Terms: []string{
			"ansioso",
			"prova",
			"medo",
			"nao estou preparado",
			"nao estudei o bastante",
			"anxious",
			"exam",
			"afraid",
			"not prepared",
		},
	},
	{
		Name: string(CategoryFatigue),
		Terms: []string{
			"cansado",
			"exausto",
			"dormi pouco",
			"sono",
			"tired",
			"exhausted",
			"sleepy",
		},
	},
	{
		Name: string(CategoryDistraction),
		Terms: []string{
			"distraido",
			"redes sociais",
			"me tira a atencao",
			"nao consigo concentrar",
			"distracted",
			"social media",
			"cant focus",
		},
	},
	{
		Name: string(CategoryComprehension),
		Terms: []string{
			"travei",
			"nao consigo entender",
			"bloqueio",
			"stuck",
			"cant understand",
		},
	},
}

type template struct {
	pt string
	en string
}

var templates = map[Category]template{
	CategoryAnxiety: {
		pt: "Entendi. Vamos dividir isso em 1 passo pequeno agora. O que e a proxima coisa mais simples que voce pode fazer em 10 minutos?",
		en: "I understand. Let's split this into one small step now. What is the next simplest thing you can do in 10 minutes?",
	},
	CategoryFatigue: {
		pt: "Seu corpo esta pedindo um ajuste. Quer fazer uma pausa de 2 minutos (respiracao) e depois escolher 1 tarefa leve?",
		en: "Your body is asking for an adjustment. Want a 2-minute breathing pause and then one light task?",
	},
	CategoryDistraction: {
		pt: "Vamos reduzir a friccao: coloque o celular longe por 10 minutos e escolha uma tarefa unica. Qual tarefa voce quer atacar primeiro?",
		en: "Let's reduce friction: put your phone away for 10 minutes and choose one single task. Which task do you want to attack first?",
	},
	CategoryComprehension: {
		pt: "Ok. Vamos trocar 'entender tudo' por 'entender 1 parte'. Qual e o topico exato que esta travando?",
		en: "Okay. Let's replace 'understand everything' with 'understand one part'. Which exact topic is blocking you?",
	},
	CategoryGeneric: {
		pt: "Entendi. Quer transformar isso em um plano curto de 10 minutos agora?",
		en: "Got it. Want to turn this into a short 10-minute plan now?",
	},
}

// Engine produces rule-based replies. The zero value is ready to use.
type Engine struct{}

// NewEngine returns a reply engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Classify returns the category raw falls into. Text that matches no
// keyword set is CategoryGeneric.
func (e *Engine) Classify(raw string) Category {
	name, ok := textmatch.Classify(raw, rules)
	if !ok {
		return CategoryGeneric
	}
	return Category(name)
}

// Generate returns the literal reply for raw in the given locale. It is
// total: every input, including empty text, yields one of five templates.
func (e *Engine) Generate(raw string, loc locale.Locale) string {
	return Template(e.Classify(raw), loc)
}

// Template returns the literal reply for a category. Unknown categories
// fall back to the generic reply.
func Template(c Category, loc locale.Locale) string {
	tpl, ok := templates[c]
	if !ok {
		tpl = templates[CategoryGeneric]
	}
	return loc.Pick(tpl.pt, tpl.en)
}
