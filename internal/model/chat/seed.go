package chat

// SeedGreeting is the human half of the seed pair.
const SeedGreeting = "Hello"

// SeedTranscript returns the two messages every session starts with:
// a human greeting followed by the persona's introduction.
func SeedTranscript(intro string) []Message {
	return []Message{
		UserMessage(SeedGreeting),
		ReplyMessage(intro),
	}
}
