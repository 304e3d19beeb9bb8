package recommendation

import (
	"github.com/yanqian/lawn-advisor/internal/infra/llm/anthropic"
)

// extractText reads the recommendation from content[0]. A missing block or
// text field is malformed even on a success status; an empty text is not.
func extractText(resp anthropic.MessageResponse) (string, error) {
	if len(resp.Content) == 0 {
		return "", newError(KindMalformedResponse, msgMalformedResponse, nil)
	}
	block := resp.Content[0]
	if block.Type != "text" || block.Text == nil {
		return "", newError(KindMalformedResponse, msgMalformedResponse, nil)
	}
	return *block.Text, nil
}
