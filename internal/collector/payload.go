package collector

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/pkoukk/tiktoken-go"

	"github.com/user/newsradio/internal/types"
)

// maxItemChars clamps individual item content before budgeting; RSS entries
// occasionally carry entire articles.
const maxItemChars = 2000

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// PayloadBuilder serializes a collection result into the string handed back
// to the voice agent. The payload lands in the agent's context window, so it
// is sanitized (HTML to markdown) and trimmed to a token budget.
type PayloadBuilder struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
}

// NewPayloadBuilder creates a builder using the named tiktoken encoding
// (falling back to cl100k_base) and the given token budget.
func NewPayloadBuilder(encoding string, maxTokens int) (*PayloadBuilder, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &PayloadBuilder{tokenizer: enc, maxTokens: maxTokens}, nil
}

func (b *PayloadBuilder) countTokens(text string) int {
	return len(b.tokenizer.Encode(text, nil, nil))
}

// Build returns the JSON topic-to-items mapping as a string, with item
// content sanitized and the item set trimmed until the whole payload fits
// the token budget. Trimming drops the trailing item of the fullest topic
// first, so coverage stays spread across topics.
func (b *PayloadBuilder) Build(result types.NewsResult) (string, error) {
	trimmed := make(types.NewsResult, len(result))
	for topic, items := range result {
		out := make([]types.FeedItem, len(items))
		for i, item := range items {
			item.Content = sanitizeContent(item.Content)
			out[i] = item
		}
		trimmed[topic] = out
	}

	for {
		data, err := json.Marshal(trimmed)
		if err != nil {
			return "", fmt.Errorf("marshal payload: %w", err)
		}
		if b.countTokens(string(data)) <= b.maxTokens {
			return string(data), nil
		}
		if !dropOneItem(trimmed) {
			// Nothing left to drop; return the skeleton as-is.
			return string(data), nil
		}
	}
}

// dropOneItem removes the last item from the topic holding the most items.
// Returns false when every topic is already empty.
func dropOneItem(result types.NewsResult) bool {
	var fullest string
	max := 0
	for topic, items := range result {
		if len(items) > max || (len(items) == max && max > 0 && topic < fullest) {
			fullest = topic
			max = len(items)
		}
	}
	if max == 0 {
		return false
	}
	result[fullest] = result[fullest][:max-1]
	return true
}

// sanitizeContent converts HTML item bodies to markdown and clamps length.
// Plain-text content passes through untouched.
func sanitizeContent(content string) string {
	if htmlTagPattern.MatchString(content) {
		if md, err := htmltomarkdown.ConvertString(content); err == nil {
			content = strings.TrimSpace(md)
		}
	}
	if len(content) > maxItemChars {
		content = content[:maxItemChars] + " [truncated]"
	}
	return content
}
