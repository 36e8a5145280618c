package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"eventwise/services"
)

// apologyMessage is returned verbatim whenever the model or a tool fails.
// Callers still get a 200 so the chat widget never surfaces a raw error.
const apologyMessage = "I apologize, but I encountered an error. Please try asking your question again or contact support."

const systemPrompt = `You are a helpful and friendly guide for an event management platform.
Answer questions about the event using the tools available to you.
When asked about sessions happening now or soon, use getLiveSessions.
When asked to find people to meet, use findRelevantPeople.
Keep answers short and conversational.`

// maxToolRounds caps the tool loop so a confused model cannot spin forever.
const maxToolRounds = 4

const liveSessionHorizonMinutes = 15

// Message is one turn of conversation history as the client sends it.
// Role is "user" or "model".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FallbackReply exposes the apology so callers can tell real answers from
// failures without string matching.
func FallbackReply() string {
	return apologyMessage
}

type Assistant struct {
	client    *ChatClient
	sessions  *services.SessionService
	attendees *services.AttendeeService
}

func New(client *ChatClient, sessions *services.SessionService, attendees *services.AttendeeService) *Assistant {
	return &Assistant{client: client, sessions: sessions, attendees: attendees}
}

var assistantTools = []toolDefinition{
	{
		Type: "function",
		Function: toolFunction{
			Name:        "getLiveSessions",
			Description: "Get sessions that are live now or starting within the next 15 minutes.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	},
	{
		Type: "function",
		Function: toolFunction{
			Name:        "findRelevantPeople",
			Description: "Find attendees of the current event whose interests match a topic.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"interest": map[string]any{
						"type":        "string",
						"description": "Topic or interest keyword to match against attendee interests.",
					},
				},
				"required": []string{"interest"},
			},
		},
	},
}

// Reply runs the chat loop for one user query, executing tool calls against
// the event data until the model produces a plain answer.
func (a *Assistant) Reply(ctx context.Context, query string, history []Message, eventID string) string {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: query})

	for round := 0; round < maxToolRounds; round++ {
		reply, err := a.client.send(ctx, messages, assistantTools)
		if err != nil {
			slog.Warn("assistant model call failed", "error", err)
			return apologyMessage
		}

		if len(reply.ToolCalls) == 0 {
			if reply.Content == "" {
				return apologyMessage
			}
			return reply.Content
		}

		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			result, err := a.runTool(ctx, call, eventID)
			if err != nil {
				slog.Warn("assistant tool failed", "tool", call.Function.Name, "error", err)
				return apologyMessage
			}
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	slog.Warn("assistant exceeded tool round limit")
	return apologyMessage
}

func (a *Assistant) runTool(ctx context.Context, call toolCall, eventID string) (string, error) {
	switch call.Function.Name {
	case "getLiveSessions":
		return a.liveSessions(ctx, eventID)
	case "findRelevantPeople":
		var args struct {
			Interest string `json:"interest"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "", err
		}
		return a.relevantPeople(ctx, eventID, args.Interest)
	default:
		return `{"error": "unknown tool"}`, nil
	}
}

func (a *Assistant) liveSessions(ctx context.Context, eventID string) (string, error) {
	sessions, err := a.sessions.UpcomingWithin(ctx, eventID, liveSessionHorizonMinutes)
	if err != nil {
		return "", err
	}

	type liveSession struct {
		Title     string `json:"title"`
		Speaker   string `json:"speaker"`
		Location  string `json:"location"`
		StartTime string `json:"startTime"`
	}
	out := make([]liveSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, liveSession{
			Title:     s.Title,
			Speaker:   s.SpeakerName,
			Location:  s.Location,
			StartTime: s.StartTime.Format(time.RFC3339),
		})
	}

	payload, err := json.Marshal(map[string]any{"sessions": out})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (a *Assistant) relevantPeople(ctx context.Context, eventID, interest string) (string, error) {
	attendees, err := a.attendees.FindByInterest(ctx, eventID, interest)
	if err != nil {
		return "", err
	}

	type person struct {
		Name      string   `json:"name"`
		Title     string   `json:"title"`
		Company   string   `json:"company"`
		Interests []string `json:"interests"`
	}
	out := make([]person, 0, len(attendees))
	for _, at := range attendees {
		out = append(out, person{
			Name:      at.Name,
			Title:     at.Title,
			Company:   at.Company,
			Interests: at.Interests,
		})
	}

	payload, err := json.Marshal(map[string]any{"people": out})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
