package media

import (
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// FindSourceImage locates the photo a render should be based on. It first
// inspects the turn at current; if that turn carries no image sentinel it
// scans strictly earlier turns newest-first, restricted to user turns. This
// lets a customer upload a photo in one turn and ask for a style several turns
// later without re-uploading.
func FindSourceImage(turns []model.ConversationTurn, current int) (string, bool) {
	if current < 0 || current >= len(turns) {
		return "", false
	}

	if url, ok := turnImage(turns[current]); ok {
		return url, true
	}

	for i := current - 1; i >= 0; i-- {
		if turns[i].Role != model.RoleUser {
			continue
		}
		if url, ok := turnImage(turns[i]); ok {
			return url, true
		}
	}

	return "", false
}

func turnImage(turn model.ConversationTurn) (string, bool) {
	for _, part := range turn.Parts {
		if url, _, ok := ExtractImageURL(part.Text); ok {
			return url, true
		}
	}
	return "", false
}
