package types

// Selection holds the randomly chosen inputs for one run.
type Selection struct {
	Quote     string `json:"quote"`
	ImagePath string `json:"image_path"`
	MusicPath string `json:"music_path"`
}

// VideoMetadata holds all YouTube upload metadata.
type VideoMetadata struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	CategoryID    string   `json:"category_id"`
	PrivacyStatus string   `json:"privacy_status"`
	MadeForKids   bool     `json:"made_for_kids"`
}

// RunResult tracks the outcome of one pipeline run.
type RunResult struct {
	RunID       string     `json:"run_id"`
	StartedAt   string     `json:"started_at"`
	CompletedAt string     `json:"completed_at"`
	Selection   *Selection `json:"selection,omitempty"`
	ContentHash string     `json:"content_hash,omitempty"`
	VideoFile   string     `json:"video_file,omitempty"`
	YouTubeID   string     `json:"youtube_id,omitempty"`
	YouTubeURL  string     `json:"youtube_url,omitempty"`
	Skipped     bool       `json:"skipped,omitempty"`
	Error       string     `json:"error,omitempty"`
}
