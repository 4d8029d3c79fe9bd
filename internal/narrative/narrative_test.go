package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interrogation/internal/game"
)

func testRequest() Request {
	return Request{
		Character: game.Character{
			ID:               "doctor",
			Name:             "林医生",
			Role:             game.RoleSuspect,
			IsMurderer:       true,
			Personality:      "冷静",
			RelationToVictim: "私人医生",
			Alibi:            "在客房休息",
			KnownFacts: []game.KnownFact{
				{ID: "f1", Content: "十点半去书房送药", IsSecret: false},
				{ID: "f2", Content: "用烛台杀了人", IsSecret: true},
			},
			Pressure: 85,
			Patience: 10,
		},
		Truth:   game.CrimeTruth{Victim: game.Victim{Name: "周怀远"}, MurdererID: "doctor"},
		Message: "你昨晚在哪里？",
	}
}

func TestSystemPrompt(t *testing.T) {
	req := testRequest()
	req.Character.IsBreaking = true

	p, err := SystemPrompt(req)
	require.NoError(t, err)

	assert.Contains(t, p, "扮演角色：林医生")
	assert.Contains(t, p, "受害者: 周怀远")
	assert.Contains(t, p, "(是你！)")
	assert.Contains(t, p, "当前压力值: 85/100")
	assert.Contains(t, p, "耐心值: 10/100")
	assert.Contains(t, p, "- 十点半去书房送药 (是否保密: 否)")
	assert.Contains(t, p, "- 用烛台杀了人 (是否保密: 是)")
	assert.Contains(t, p, "与死者的关系: 私人医生")
	assert.Contains(t, p, "心理防线")
	assert.Contains(t, p, "绝不要提及游戏机制")
}

func TestSystemPrompt_Innocent(t *testing.T) {
	req := testRequest()
	req.Character.IsMurderer = false
	req.Character.ID = "maid"

	p, err := SystemPrompt(req)
	require.NoError(t, err)

	assert.Contains(t, p, "(是不是你)")
	assert.NotContains(t, p, "心理防线")
}

func TestBypass(t *testing.T) {
	b := &Bypass{Delay: 10 * time.Millisecond}

	start := time.Now()
	out, err := b.Generate(context.Background(), "BYPASS", testRequest())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Contains(t, out, "林医生")
	assert.Contains(t, out, "你昨晚在哪里？")
	assert.Equal(t, BypassReply("林医生", "你昨晚在哪里？"), out)
}

func TestBypass_Canceled(t *testing.T) {
	b := &Bypass{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Generate(ctx, "BYPASS", testRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

type stubGenerator struct {
	reply string
	calls int
}

func (s *stubGenerator) Generate(context.Context, string, Request) (string, error) {
	s.calls++
	return s.reply, nil
}

func TestSwitch(t *testing.T) {
	bypass := &stubGenerator{reply: "bypass"}
	live := &stubGenerator{reply: "live"}
	sw := &Switch{BypassCredential: "BYPASS", Bypass: bypass, Live: live}

	out, err := sw.Generate(context.Background(), "BYPASS", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "bypass", out)

	out, err = sw.Generate(context.Background(), "sk-real", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "live", out)

	assert.True(t, sw.IsBypass("BYPASS"))
	assert.False(t, sw.IsBypass("bypass"))
	assert.Equal(t, 1, bypass.calls)
	assert.Equal(t, 1, live.calls)
}

func TestOpenAIGenerator(t *testing.T) {
	var got struct {
		Model               string  `json:"model"`
		Temperature         float32 `json:"temperature"`
		MaxCompletionTokens int     `json:"max_completion_tokens"`
		Messages            []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " 我一直在客房。 "}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(Params{Temperature: 0.7, MaxTokens: 150}, srv.URL+"/v1", nil)
	out, err := g.Generate(context.Background(), "sk-test", testRequest())
	require.NoError(t, err)

	assert.Equal(t, "我一直在客房。", out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
	assert.Equal(t, 150, got.MaxCompletionTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "林医生")
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "你昨晚在哪里？", got.Messages[1].Content)
}

func TestOpenAIGenerator_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(Params{}, srv.URL+"/v1", nil)
	_, err := g.Generate(context.Background(), "sk-bad", testRequest())

	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestGetText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, ""},
		{
			"text only",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("我"), genai.Text("不知道。")}},
			}}},
			"我不知道。",
		},
		{
			"mixed parts",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Text("a"),
					genai.Blob{MIMEType: "image/png", Data: []byte{1}},
					genai.Text("b"),
				}},
			}}},
			"ab",
		},
		{
			"only first candidate",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("first")}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("second")}}},
			}},
			"first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getText(tt.resp))
		})
	}
}
