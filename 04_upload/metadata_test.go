package upload

import (
	"strings"
	"testing"

	"quote-shorts-pipeline/config"

	"github.com/stretchr/testify/assert"
)

func uploadConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Upload = config.UploadConfig{
		CategoryID:    "22",
		PrivacyStatus: "public",
		MadeForKids:   false,
		Tags:          []string{"quotes", "motivation", "shorts"},
		TitleMaxChars: 30,
		Description:   "Daily quotes. #shorts #motivation",
	}
	return cfg
}

func TestBuildMetadata(t *testing.T) {
	meta := BuildMetadata(uploadConfig(), "stay hungry")

	assert.Equal(t, "stay hungry", meta.Title)
	assert.Equal(t, "stay hungry\n\nDaily quotes. #shorts #motivation", meta.Description)
	assert.Equal(t, []string{"quotes", "motivation", "shorts"}, meta.Tags)
	assert.Equal(t, "22", meta.CategoryID)
	assert.Equal(t, "public", meta.PrivacyStatus)
	assert.False(t, meta.MadeForKids)
}

func TestBuildMetadata_TruncatesLongTitle(t *testing.T) {
	quote := strings.Repeat("long ", 20)
	meta := BuildMetadata(uploadConfig(), quote)

	assert.Len(t, []rune(meta.Title), 30)
	assert.True(t, strings.HasSuffix(meta.Title, "..."))
	// Description keeps the full quote.
	assert.Contains(t, meta.Description, quote)
}

func TestBuildMetadata_MultibyteTitleTruncation(t *testing.T) {
	quote := strings.Repeat("頑張れ", 20)
	meta := BuildMetadata(uploadConfig(), quote)
	assert.Len(t, []rune(meta.Title), 30)
}

func TestBuildMetadata_NoDescriptionBlurb(t *testing.T) {
	cfg := uploadConfig()
	cfg.Upload.Description = ""
	meta := BuildMetadata(cfg, "just the quote")
	assert.Equal(t, "just the quote", meta.Description)
}
