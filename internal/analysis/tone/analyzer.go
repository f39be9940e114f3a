package tone

import (
	"strings"
	"unicode"
)

// Label names the emotional tone detected in a user's message.
type Label string

const (
	Neutral  Label = "neutral"
	Sad      Label = "sad"
	Anxious  Label = "anxious"
	Angry    Label = "angry"
	Happy    Label = "happy"
	Grateful Label = "grateful"
)

// Decision is the detected tone and how strongly it was signalled.
type Decision struct {
	Tone  Label
	Score int
}

var keywordBuckets = map[Label][]string{
	Sad: {
		"sad", "depressed", "lonely", "alone", "cry", "crying", "grief", "grieving", "hopeless",
		"heartbroken", "lost my", "miss her", "miss him", "empty", "worthless", "hurt",
	},
	Anxious: {
		"anxious", "anxiety", "worried", "worry", "nervous", "panic", "afraid", "scared", "fear",
		"overwhelmed", "stress", "stressed", "can't sleep", "restless", "uneasy",
	},
	Angry: {
		"angry", "furious", "mad", "rage", "hate", "annoyed", "frustrated", "resent", "bitter",
		"fed up", "sick of", "unfair",
	},
	Happy: {
		"happy", "joy", "excited", "glad", "wonderful", "great news", "blessed", "amazing", "celebrate",
		"good day", "hopeful",
	},
	Grateful: {
		"thank you", "thanks", "grateful", "thankful", "appreciate", "praise",
	},
}

// priority breaks ties in favour of tones that need the most care.
var priority = []Label{Sad, Anxious, Angry, Grateful, Happy}

var styleByTone = map[Label]string{
	Neutral:  "Keep a warm, clear and natural tone.",
	Sad:      "The user sounds low. Respond gently, validate their feelings and offer comfort before any advice.",
	Anxious:  "The user sounds anxious. Be calm and grounding; suggest one small, concrete step such as slow breathing.",
	Angry:    "The user sounds frustrated. Stay steady and non-defensive; acknowledge the frustration before reframing.",
	Happy:    "The user sounds joyful. Share in their joy and encourage gratitude.",
	Grateful: "The user is expressing thanks. Receive it warmly and keep the door open for more conversation.",
}

// Analyze scores the user's message against keyword buckets.
func Analyze(message string) Decision {
	normalized := wordText(message)
	if normalized == "" {
		return Decision{Tone: Neutral}
	}
	padded := " " + normalized + " "

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(padded, " "+word+" ") {
				scores[label] += 3
			}
		}
	}

	if exclamations := strings.Count(message, "!"); exclamations > 0 && scores[Happy] > 0 {
		scores[Happy] += exclamations
	}

	best := Decision{Tone: Neutral}
	for _, label := range priority {
		if s := scores[label]; s > best.Score {
			best = Decision{Tone: label, Score: s}
		}
	}
	return best
}

// wordText lowercases message and reduces it to its words separated by single
// spaces, so keywords only match whole words.
func wordText(message string) string {
	message = strings.ReplaceAll(strings.ToLower(message), "’", "'")
	words := strings.FieldsFunc(message, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return strings.Join(words, " ")
}

// Style returns the reply guidance for a tone.
func Style(label Label) string {
	if style, ok := styleByTone[label]; ok {
		return style
	}
	return styleByTone[Neutral]
}
