// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/codefinder/pkg/types"
)

// maxReadmeBytes bounds the decoded README size kept for analysis.
const maxReadmeBytes = 512 << 10

// Readme fetches the repository README and returns it as plain text.
// A repository without a README yields FetchNotFound; an undecodable
// payload yields FetchEmpty.
func (c *Client) Readme(ctx context.Context, slug string) types.ReadmeOutcome {
	if !validSlug(slug) {
		return types.ReadmeOutcome{Status: types.FetchNotFound, Err: fmt.Errorf("invalid repository identifier %q", slug)}
	}

	resp, status, err := c.get(ctx, "readme", "/repos/"+slug+"/readme", nil)
	if status != types.FetchOK {
		return types.ReadmeOutcome{Status: status, Err: err}
	}
	defer resp.Body.Close()

	var raw struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.ReadmeOutcome{Status: types.FetchEmpty, Err: fmt.Errorf("parsing README response: %w", err)}
	}

	text, err := decodeContent(raw.Content, raw.Encoding)
	if err != nil {
		return types.ReadmeOutcome{Status: types.FetchEmpty, Err: err}
	}
	if strings.Contains(text, "<") {
		text = htmlToText(text)
	}
	if strings.TrimSpace(text) == "" {
		return types.ReadmeOutcome{Status: types.FetchEmpty}
	}
	return types.ReadmeOutcome{Status: types.FetchOK, Text: text}
}

// decodeContent decodes the contents API payload. GitHub wraps base64 at 60
// columns, so newlines are stripped first.
func decodeContent(content, encoding string) (string, error) {
	switch encoding {
	case "", "utf-8":
		return content, nil
	case "base64":
		clean := strings.NewReplacer("\n", "", "\r", "").Replace(content)
		data, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return "", fmt.Errorf("decoding README: %w", err)
		}
		if len(data) > maxReadmeBytes {
			data = data[:maxReadmeBytes]
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported README encoding %q", encoding)
	}
}

// htmlToText strips markup from README content, keeping text nodes and
// dropping script and style bodies. Markdown text passes through unchanged
// apart from inline tags.
func htmlToText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; keep what was read.
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}
