// Package ai generates product copy and imagery through the OpenAI API. The
// API key lives in the admin settings store, with the environment as fallback.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"proudshop/store"
)

const KeySettingName = "OPENAI_API_KEY"

// ErrNoAPIKey means neither the settings store nor the environment carries a
// usable OpenAI key. Controllers map it to 400.
var ErrNoAPIKey = errors.New("OpenAI key mungon")

type SuggestInput struct {
	Title    string   `json:"title" binding:"required"`
	Features []string `json:"features"`
	Language string   `json:"language"`
	Tone     string   `json:"tone"`
}

type Suggestion struct {
	SuggestedTitle string   `json:"suggested_title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
}

type ImageInput struct {
	Prompt string `json:"prompt" binding:"required"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

// Copywriter wraps the OpenAI chat and image endpoints.
type Copywriter struct {
	settings store.SettingStore

	// newClient is swappable in tests.
	newClient func(apiKey string) openAIClient
}

type openAIClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

func NewCopywriter(settings store.SettingStore) *Copywriter {
	return &Copywriter{
		settings: settings,
		newClient: func(apiKey string) openAIClient {
			return openai.NewClient(apiKey)
		},
	}
}

// APIKey resolves the OpenAI key: the settings store wins, the environment
// is the fallback.
func (c *Copywriter) APIKey(ctx context.Context) string {
	if s, err := c.settings.Get(ctx, KeySettingName); err == nil && s.Value != nil && *s.Value != "" {
		return *s.Value
	}
	return os.Getenv("OPENAI_API_KEY")
}

func (c *Copywriter) client(ctx context.Context) (openAIClient, error) {
	key := c.APIKey(ctx)
	if key == "" {
		return nil, ErrNoAPIKey
	}
	return c.newClient(key), nil
}

var jsonFenceRe = regexp.MustCompile("(?s)```json(.*?)```")

// Suggest asks the model for an improved title, description and SEO tags.
// The model is instructed to answer in JSON; fenced or sloppy responses are
// tolerated and decode to empty fields rather than an error.
func (c *Copywriter) Suggest(ctx context.Context, in SuggestInput) (*Suggestion, error) {
	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	language := in.Language
	if language == "" {
		language = "sq"
	}
	tone := in.Tone
	if tone == "" {
		tone = "neutral professional"
	}
	features := strings.Join(in.Features, ", ")
	if features == "" {
		features = "N/A"
	}

	prompt := fmt.Sprintf(
		"Generate improved product title, 120-160 word engaging description, and 5-10 short comma-separated SEO tags.\n"+
			"Title: %s\nFeatures: %s\nLanguage: %s\nTone: %s\n"+
			"Respond in JSON with keys: title, description, tags (array).",
		in.Title, features, language, tone,
	)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an ecommerce product copy assistant for Albanian (sq) language unless specified. Return concise output.",
			},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   600,
	})
	if err != nil {
		return nil, fmt.Errorf("AI request dështoi: %w", err)
	}
	if len(resp.Choices) == 0 {
		return &Suggestion{Tags: []string{}}, nil
	}
	return parseSuggestion(resp.Choices[0].Message.Content), nil
}

func parseSuggestion(content string) *Suggestion {
	jsonText := content
	if m := jsonFenceRe.FindStringSubmatch(content); m != nil {
		jsonText = m[1]
	}

	var parsed struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Tags        json.RawMessage `json:"tags"`
	}
	// Unparseable responses degrade to empty fields.
	_ = json.Unmarshal([]byte(jsonText), &parsed)

	return &Suggestion{
		SuggestedTitle: parsed.Title,
		Description:    parsed.Description,
		Tags:           parseTags(parsed.Tags),
	}
}

// parseTags accepts either a JSON array or a comma-separated string.
func parseTags(raw json.RawMessage) []string {
	tags := []string{}
	if len(raw) == 0 {
		return tags
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		for _, t := range strings.Split(joined, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// GenerateImages returns URLs of generated product imagery.
func (c *Copywriter) GenerateImages(ctx context.Context, in ImageInput) ([]string, error) {
	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	size := in.Size
	if size == "" {
		size = "1024x1024"
	}
	n := in.N
	if n <= 0 {
		n = 1
	}

	resp, err := client.CreateImage(ctx, openai.ImageRequest{
		Model:  "gpt-image-1",
		Prompt: in.Prompt,
		Size:   size,
		N:      n,
	})
	if err != nil {
		return nil, fmt.Errorf("Image generation dështoi: %w", err)
	}

	urls := []string{}
	for _, d := range resp.Data {
		if d.URL != "" {
			urls = append(urls, d.URL)
		}
	}
	return urls, nil
}
