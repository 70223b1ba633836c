// Package domain contains the core types of the AI-completion gateway:
// conversation messages, completion results, evaluation contexts, resolved
// AI configurations, and judge verdicts. The package has no dependencies on
// provider SDKs or transport concerns so every layer of the gateway can
// share these types.
package domain

// Role identifies the author of a conversation message.
type Role string

// The closed set of roles a configuration message may carry.
// Roles outside this set are dropped during normalization rather than
// rejected, so newer configuration schemas remain forward compatible.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one provider-agnostic entry of a configuration's message
// template: a role plus free-form text content.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SplitSystem partitions a message list into system instructions and
// conversation turns, preserving the original order within each partition.
// System-role entries are hoisted into the returned instruction list and
// never appear as turns; user and assistant entries become turns; any other
// role vanishes silently.
//
// Backends that keep system instructions separate from the conversation
// (Bedrock Converse, Anthropic messages) consume both return values
// directly; chat-completion style backends re-insert the instructions at
// the head of the message array.
func SplitSystem(messages []Message) (system []string, turns []Message) {
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleUser, RoleAssistant:
			turns = append(turns, m)
		}
	}
	return system, turns
}
