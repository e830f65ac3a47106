// Package model provides domain types shared across packages.
package model

// Role identifies who produced a message within a conversation turn.
type Role string

const (
	// RoleUser is a message typed by the end user.
	RoleUser Role = "user"
	// RoleAssistant is a reply produced by the language model.
	RoleAssistant Role = "assistant"
	// RoleSystem is an instruction injected by the engine.
	RoleSystem Role = "system"
	// RoleToolResult is the output of a retrieval step, carrying its artifact.
	RoleToolResult Role = "tool_result"
)

// Message is a single conversational turn unit. Messages are immutable
// after creation; use the constructors below so that optional fields are
// only set on the role variants that own them: Artifact belongs to
// tool-result messages, RequestedTools to assistant messages that defer
// to retrieval.
type Message struct {
	Role           Role                      `json:"role"`
	Content        string                    `json:"content"`
	Artifact       map[string]Recommendation `json:"artifact,omitempty"`
	RequestedTools []string                  `json:"requested_tools,omitempty"`
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a plain assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// ToolResultMessage creates a tool-result message carrying the
// recommendation artifact produced alongside the retrieved content.
func ToolResultMessage(content string, artifact map[string]Recommendation) Message {
	return Message{Role: RoleToolResult, Content: content, Artifact: artifact}
}

// RequestsTools reports whether this assistant message deferred to
// retrieval and must therefore be excluded from the final prompt.
func (m Message) RequestsTools() bool {
	return m.Role == RoleAssistant && len(m.RequestedTools) > 0
}

// RetrievedPassage is one ranked search hit from the vector index.
// Rank is the 0-based position within one query's result set and is
// strictly increasing with Distance.
type RetrievedPassage struct {
	Title    string
	Body     string
	MediaURL string
	Distance float64
	Rank     int
}

// Recommendation is a deduplicated media suggestion derived from a
// retrieved passage. ThumbnailURL is empty when the media host has no
// predictable thumbnail path.
type Recommendation struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// TurnResult is the outcome of one state-machine run: the final
// assistant message, the accumulated recommendation map and the elapsed
// wall-clock time. It is handed to the caller and not retained.
type TurnResult struct {
	Message         Message
	Recommendations map[string]Recommendation
	DurationMs      uint64
}
