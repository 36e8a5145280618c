package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventwise/models"
	"eventwise/services"
	"eventwise/store"
)

// fakeModel scripts one response per request, in order.
type fakeModel struct {
	t         *testing.T
	responses []string
	requests  []chatRequest
}

func (f *fakeModel) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.requests = append(f.requests, req)

		if len(f.responses) == 0 {
			http.Error(w, `{"error": {"message": "out of scripted responses"}}`, http.StatusInternalServerError)
			return
		}
		resp := f.responses[0]
		f.responses = f.responses[1:]

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resp))
	}
}

func textResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
	return string(b)
}

func toolCallResponse(callID, name, arguments string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{
						{"id": callID, "type": "function", "function": map[string]any{"name": name, "arguments": arguments}},
					},
				},
				"finish_reason": "tool_calls",
			},
		},
	})
	return string(b)
}

func setupAssistant(t *testing.T, model *fakeModel) (*Assistant, *services.SessionService, *services.AttendeeService) {
	t.Helper()

	server := httptest.NewServer(model.handler())
	t.Cleanup(server.Close)

	mem := store.NewMemoryStore()
	sessions := services.NewSessionService(mem)
	attendees := services.NewAttendeeService(mem)

	client := NewChatClient("test-key", server.URL, "test-model")
	return New(client, sessions, attendees), sessions, attendees
}

func TestAssistant_PlainAnswer(t *testing.T) {
	model := &fakeModel{t: t, responses: []string{textResponse("The keynote starts at 9am.")}}
	guide, _, _ := setupAssistant(t, model)

	reply := guide.Reply(context.Background(), "When is the keynote?", nil, "e1")
	assert.Equal(t, "The keynote starts at 9am.", reply)

	require.Len(t, model.requests, 1)
	messages := model.requests[0].Messages
	require.GreaterOrEqual(t, len(messages), 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[len(messages)-1].Role)
}

func TestAssistant_HistoryRolesAreTranslated(t *testing.T) {
	model := &fakeModel{t: t, responses: []string{textResponse("Sure.")}}
	guide, _, _ := setupAssistant(t, model)

	history := []Message{
		{Role: "user", Content: "Hi"},
		{Role: "model", Content: "Hello, how can I help?"},
	}
	guide.Reply(context.Background(), "Thanks", history, "e1")

	require.Len(t, model.requests, 1)
	messages := model.requests[0].Messages
	require.Len(t, messages, 4)
	assert.Equal(t, "assistant", messages[2].Role)
}

func TestAssistant_LiveSessionsTool(t *testing.T) {
	model := &fakeModel{t: t, responses: []string{
		toolCallResponse("call_1", "getLiveSessions", "{}"),
		textResponse("The Go workshop starts in 10 minutes in Hall A."),
	}}
	guide, sessions, _ := setupAssistant(t, model)

	_, err := sessions.Create(context.Background(), &models.Session{
		EventID:     "e1",
		Title:       "Go Workshop",
		SpeakerName: "Dana",
		Location:    "Hall A",
		StartTime:   time.Now().UTC().Add(10 * time.Minute),
		EndTime:     time.Now().UTC().Add(70 * time.Minute),
	})
	require.NoError(t, err)

	reply := guide.Reply(context.Background(), "What's starting soon?", nil, "e1")
	assert.Equal(t, "The Go workshop starts in 10 minutes in Hall A.", reply)

	// Second request must carry the tool result back to the model.
	require.Len(t, model.requests, 2)
	second := model.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, "Go Workshop")
}

func TestAssistant_FindPeopleTool(t *testing.T) {
	model := &fakeModel{t: t, responses: []string{
		toolCallResponse("call_1", "findRelevantPeople", `{"interest": "machine learning"}`),
		textResponse("You should meet Dana."),
	}}
	guide, _, attendees := setupAssistant(t, model)

	_, err := attendees.Create(context.Background(), &models.Attendee{
		UserID:    "u1",
		EventID:   "e1",
		Name:      "Dana",
		Interests: []string{"Machine Learning"},
	})
	require.NoError(t, err)

	reply := guide.Reply(context.Background(), "Who should I meet?", nil, "e1")
	assert.Equal(t, "You should meet Dana.", reply)

	second := model.requests[1].Messages
	assert.Contains(t, second[len(second)-1].Content, "Dana")
}

func TestAssistant_ModelErrorReturnsApology(t *testing.T) {
	model := &fakeModel{t: t} // no scripted responses: every call 500s
	guide, _, _ := setupAssistant(t, model)

	reply := guide.Reply(context.Background(), "Hello?", nil, "e1")
	assert.Equal(t, FallbackReply(), reply)
}

func TestAssistant_ToolLoopIsCapped(t *testing.T) {
	// The model keeps asking for tools and never answers.
	model := &fakeModel{t: t, responses: []string{
		toolCallResponse("c1", "getLiveSessions", "{}"),
		toolCallResponse("c2", "getLiveSessions", "{}"),
		toolCallResponse("c3", "getLiveSessions", "{}"),
		toolCallResponse("c4", "getLiveSessions", "{}"),
		toolCallResponse("c5", "getLiveSessions", "{}"),
	}}
	guide, _, _ := setupAssistant(t, model)

	reply := guide.Reply(context.Background(), "loop", nil, "e1")
	assert.Equal(t, FallbackReply(), reply)
	assert.Len(t, model.requests, maxToolRounds)
}

func TestAssistant_UnknownToolIsReportedToModel(t *testing.T) {
	model := &fakeModel{t: t, responses: []string{
		toolCallResponse("c1", "launchRockets", "{}"),
		textResponse("Sorry, I can't do that."),
	}}
	guide, _, _ := setupAssistant(t, model)

	reply := guide.Reply(context.Background(), "do something odd", nil, "e1")
	assert.Equal(t, "Sorry, I can't do that.", reply)

	second := model.requests[1].Messages
	assert.Contains(t, second[len(second)-1].Content, "unknown tool")
}
