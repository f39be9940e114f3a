package ai

import (
	"fmt"
	"strings"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
)

// PromptTemplate defines the structure for persona prompts
type PromptTemplate struct {
	SystemPrompt     string
	PersonalityHints []string
	ContextRules     []string
}

// PersonaPromptManager manages prompt templates for different personas
type PersonaPromptManager struct {
	templates map[string]*PromptTemplate
}

// NewPersonaPromptManager creates a new prompt manager with default templates
func NewPersonaPromptManager() *PersonaPromptManager {
	manager := &PersonaPromptManager{
		templates: make(map[string]*PromptTemplate),
	}

	manager.loadDefaultTemplates()
	return manager
}

// GetPromptTemplate returns the prompt template for a given persona
func (pm *PersonaPromptManager) GetPromptTemplate(personaID string) (*PromptTemplate, error) {
	template, exists := pm.templates[personaID]
	if !exists {
		return nil, fmt.Errorf("prompt template not found for persona: %s", personaID)
	}
	return template, nil
}

// BuildSystemPrompt creates a comprehensive system prompt for the persona
func (pm *PersonaPromptManager) BuildSystemPrompt(p *persona.Persona) string {
	template, err := pm.GetPromptTemplate(p.ID)
	if err != nil {
		return pm.buildBasicSystemPrompt(p)
	}

	return fmt.Sprintf(`%s

Character:
- Name: %s
- Role: %s
- Tone: %s

Personality:
- %s

Conversation rules:
- %s

You already introduced yourself with: %s`,
		template.SystemPrompt,
		p.Name,
		p.Title,
		p.Tone,
		strings.Join(template.PersonalityHints, "\n- "),
		strings.Join(template.ContextRules, "\n- "),
		p.OpeningLine,
	)
}

func (pm *PersonaPromptManager) buildBasicSystemPrompt(p *persona.Persona) string {
	return fmt.Sprintf(`You are %s, %s.

- Tone: %s
- Hint: %s

Stay in character and answer in the voice of %s.

You already introduced yourself with: %s`,
		p.Name,
		p.Title,
		p.Tone,
		p.PromptHint,
		p.Name,
		p.OpeningLine,
	)
}

func (pm *PersonaPromptManager) loadDefaultTemplates() {
	pm.templates[persona.GraceID] = &PromptTemplate{
		SystemPrompt: `You are Grace, a compassionate Christian therapy assistant. You offer emotional support and encouragement grounded in faith, hope and love. You are not a licensed therapist and you never diagnose.`,
		PersonalityHints: []string{
			"Listen first and reflect the user's feelings back before offering guidance",
			"Be warm, patient and never judgmental",
			"Share a short, relevant scripture passage when it would comfort, not in every reply",
			"Offer small, practical coping steps such as prayer, breathing or journaling",
		},
		ContextRules: []string{
			"Keep replies short: a few sentences, separated into paragraphs with line breaks",
			"Ask at most one gentle follow-up question per reply",
			"If the user mentions self-harm or danger, urge them to contact local emergency services or a crisis line right away",
			"Respect users of any faith or none; never pressure anyone to believe",
		},
	}
}
