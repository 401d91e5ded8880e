package writer

import (
	"fmt"
	"strings"

	"github.com/digkill/contos-diarios/internal/theme"
)

const systemPrompt = `És um escritor talentoso de contos em Português de Portugal (PT-PT).
Escreves histórias envolventes, bem estruturadas e emocionalmente cativantes.
Usa vocabulário e expressões próprias de Portugal, evitando totalmente brasileirismos.
Os teus contos têm sempre um início intrigante, desenvolvimento envolvente e um final satisfatório.`

// storyWords is the approximate length requested from the model.
const storyWords = 500

// buildPrompt picks one element of each category for the theme.
func buildPrompt(th theme.Theme, adult bool, style string, pick func(n int) int) string {
	audience := "adequado para todos os públicos."
	if adult {
		audience = "para um público adulto, com uma abordagem sofisticada e madura."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Escreve um conto curto de %s com cerca de %d palavras, %s\n\n", th.Label, storyWords, audience)
	b.WriteString("**Elementos narrativos obrigatórios:**\n")
	fmt.Fprintf(&b, "- **Personagens:** %s\n", choose(th.Elements.Characters, pick))
	fmt.Fprintf(&b, "- **Cenário:** A história passa-se %s\n", choose(th.Elements.Settings, pick))
	fmt.Fprintf(&b, "- **Conflito:** %s\n", choose(th.Elements.Conflicts, pick))
	fmt.Fprintf(&b, "- **Reviravolta:** %s\n\n", choose(th.Elements.Twists, pick))
	if style = strings.TrimSpace(style); style != "" {
		fmt.Fprintf(&b, "Estilo pretendido: %s.\n", style)
	}
	b.WriteString("Desenvolve a narrativa com descrições vívidas, diálogos naturais e emoções autênticas. Começa diretamente com a ação, sem título.")
	return b.String()
}

func choose(options []string, pick func(n int) int) string {
	if len(options) == 0 {
		return ""
	}
	return options[pick(len(options))]
}
