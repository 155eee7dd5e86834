package entities

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a caller-owned conversation log.
type Turn struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	Sources []string `json:"sources,omitempty"`
}

// Conversation is an ordered message log held by the caller.
// The query pipeline never reads it.
type Conversation struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}

// AddUser appends a user turn.
func (c *Conversation) AddUser(content string) {
	c.Turns = append(c.Turns, Turn{Role: RoleUser, Content: content})
}

// AddAnswer appends an assistant turn built from a query result.
func (c *Conversation) AddAnswer(res QueryResult) {
	c.Turns = append(c.Turns, Turn{
		Role:    RoleAssistant,
		Content: res.Answer,
		Sources: append([]string(nil), res.Sources...),
	})
}

// Reset drops all turns.
func (c *Conversation) Reset() {
	c.Turns = nil
}
