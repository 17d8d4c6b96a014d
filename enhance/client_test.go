package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/randalmurphal/voicememo/testutil"
)

func completionJSON(t *testing.T, content string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "deepseek-ai/DeepSeek-V2.5",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return body
}

func testClientConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		APIKey:       "sk-test",
		Model:        "deepseek-ai/DeepSeek-V2.5",
		SystemPrompt: "优化用户的语音转文字内容。",
		MaxTokens:    2000,
		Temperature:  0.7,
		ToolName:     "ZK_VOICEMEMO",
	}
}

func TestEnhanceSuccess(t *testing.T) {
	content := testutil.LoadFixtureString(t, "completion_content.txt")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		var req struct {
			Model       string  `json:"model"`
			MaxTokens   int64   `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Tools []struct {
				Type     string `json:"type"`
				Function struct {
					Name string `json:"name"`
				} `json:"function"`
			} `json:"tools"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "deepseek-ai/DeepSeek-V2.5" {
			t.Errorf("model = %q", req.Model)
		}
		if req.MaxTokens != 2000 {
			t.Errorf("max_tokens = %d, want 2000", req.MaxTokens)
		}
		if req.Temperature != 0.7 {
			t.Errorf("temperature = %g, want 0.7", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v, want system then user", req.Messages)
		}
		if req.Messages[1].Content != "今天开会讨论排期" {
			t.Errorf("user message = %q", req.Messages[1].Content)
		}
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "ZK_VOICEMEMO" {
			t.Errorf("tools = %+v, want single ZK_VOICEMEMO function", req.Tools)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(completionJSON(t, content))
	}))
	defer srv.Close()

	client := NewClient(testClientConfig(srv.URL), nil)

	got, err := client.Enhance(context.Background(), "今天开会讨论排期")
	if err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	if !strings.Contains(got.Text, "排期") {
		t.Errorf("Text = %q, want polished transcript", got.Text)
	}
	if want := []string{"#项目", "#排期", "#团队协作"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Tags = %v, want %v", got.Tags, want)
	}
	if !strings.Contains(got.Thoughts, "里程碑") {
		t.Errorf("Thoughts = %q, want reflection note", got.Thoughts)
	}
}

func TestEnhancePartialContentDegradesGracefully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionJSON(t, "优化后的文本：\n只有正文，没有别的。"))
	}))
	defer srv.Close()

	client := NewClient(testClientConfig(srv.URL), nil)

	got, err := client.Enhance(context.Background(), "原始文本")
	if err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	if got.Text != "只有正文，没有别的。" {
		t.Errorf("Text = %q", got.Text)
	}
	if len(got.Tags) != 0 || got.Thoughts != "" {
		t.Errorf("missing sections should stay empty, got %+v", got)
	}
}

func TestEnhanceServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	client := NewClient(testClientConfig(srv.URL), nil)

	_, err := client.Enhance(context.Background(), "文本")
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("Enhance() error = %v, want ErrFailed", err)
	}
	// The client is configured with retries disabled.
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestEnhanceNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testClientConfig(srv.URL), nil)

	_, err := client.Enhance(context.Background(), "文本")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Enhance() error = %v, want ErrMalformedResponse", err)
	}
}

func TestEnhanceEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionJSON(t, "   "))
	}))
	defer srv.Close()

	client := NewClient(testClientConfig(srv.URL), nil)

	_, err := client.Enhance(context.Background(), "文本")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Enhance() error = %v, want ErrMalformedResponse", err)
	}
}
