package chat

import "strings"

// FallbackText is appended in place of a reply when the Reply Service fails.
const FallbackText = "Sorry, I couldn't process that message. Please try again."

// escapedNewline is how the Reply Service encodes line breaks inside replies.
const escapedNewline = `\n`

// Message is one entry of a session transcript.
type Message struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// UserMessage builds a human-authored message.
func UserMessage(text string) Message {
	return Message{Text: text, IsUser: true}
}

// ReplyMessage builds a message authored by the Reply Service.
func ReplyMessage(text string) Message {
	return Message{Text: text, IsUser: false}
}

// Fallback is the reply shown when the Reply Service could not answer.
func Fallback() Message {
	return ReplyMessage(FallbackText)
}

// Lines splits the message text on line breaks for multi-line display.
func (m Message) Lines() []string {
	return strings.Split(m.Text, "\n")
}

// HistoryPair is the wire form of a prior message: [userText, replyText].
// Exactly one side is populated.
type HistoryPair [2]string

// Pair encodes the message for the history field of a Reply Service request.
func (m Message) Pair() HistoryPair {
	if m.IsUser {
		return HistoryPair{m.Text, ""}
	}
	return HistoryPair{"", m.Text}
}

// EncodeHistory converts a transcript into request history, keeping order.
func EncodeHistory(messages []Message) []HistoryPair {
	history := make([]HistoryPair, 0, len(messages))
	for _, msg := range messages {
		history = append(history, msg.Pair())
	}
	return history
}

// Normalize turns escaped newline sequences in a reply into real line breaks.
func Normalize(text string) string {
	return strings.ReplaceAll(text, escapedNewline, "\n")
}

// Escape is the inverse of Normalize, used when serving replies.
func Escape(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", escapedNewline)
}
