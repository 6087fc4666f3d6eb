package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodec_RoundTrip(t *testing.T) {
	url := "https://cdn.example.com/uploads/room%20photo.jpg"

	encoded := EncodeImageURL(url)
	decoded, remainder, ok := ExtractImageURL(encoded)
	assert.True(t, ok)
	assert.Equal(t, url, decoded)
	assert.Equal(t, "", remainder)

	encoded = EncodeRenderURL(url)
	decoded, _, ok = ExtractRenderURL(encoded)
	assert.True(t, ok)
	assert.Equal(t, url, decoded)
}

func TestCodec_NoSentinel(t *testing.T) {
	decoded, remainder, ok := ExtractImageURL("I'd like motorized blinds please")
	assert.False(t, ok)
	assert.Equal(t, "", decoded)
	assert.Equal(t, "I'd like motorized blinds please", remainder)
}

func TestCodec_SentinelInsideText(t *testing.T) {
	text := "Here's my living room [IMAGE_URL: https://cdn.example.com/a.jpg] what do you think?"

	url, remainder, ok := ExtractImageURL(text)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/a.jpg", url)
	assert.Equal(t, "Here's my living room  what do you think?", remainder)
}

func TestCodec_FirstMatchOnly(t *testing.T) {
	text := "[IMAGE_URL: https://cdn.example.com/first.jpg] [IMAGE_URL: https://cdn.example.com/second.jpg]"

	url, _, ok := ExtractImageURL(text)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/first.jpg", url)
}

func TestCodec_KindsDoNotCrossMatch(t *testing.T) {
	_, _, ok := ExtractImageURL(EncodeRenderURL("https://cdn.example.com/render.png"))
	assert.False(t, ok)
}
