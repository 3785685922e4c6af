package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"quote-shorts-pipeline/config"
	"quote-shorts-pipeline/types"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const uploadChunkSize = 8 * 1024 * 1024

// ErrUpload is returned on network, quota or server rejection during upload.
// The caller logs it and ends the run; there is no retry and no rollback.
var ErrUpload = errors.New("youtube upload failed")

// Uploader publishes finished videos to YouTube via Data API v3 with a
// resumable chunked upload.
type Uploader struct {
	cfg   *config.Config
	creds *CredentialStore
}

// New creates an Uploader. Client credentials come from YOUTUBE_CLIENT_ID /
// YOUTUBE_CLIENT_SECRET; tokens are cached at the configured path.
func New(cfg *config.Config) *Uploader {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		ClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	return &Uploader{
		cfg:   cfg,
		creds: NewCredentialStore(cfg.Paths.TokenCache, conf),
	}
}

// Run uploads the video file with its metadata and returns the remote video
// id and public URL.
func (u *Uploader) Run(ctx context.Context, videoFile string, meta *types.VideoMetadata) (string, string, error) {
	log.Println("[upload] authenticating with YouTube API...")
	tok, err := u.creds.Token(ctx)
	if err != nil {
		return "", "", err
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(u.creds.conf.Client(ctx, tok)))
	if err != nil {
		return "", "", fmt.Errorf("%w: service: %v", ErrUpload, err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.PrivacyStatus,
			SelfDeclaredMadeForKids: meta.MadeForKids,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("%w: open video file: %v", ErrUpload, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", "", fmt.Errorf("%w: stat video file: %v", ErrUpload, err)
	}
	log.Printf("[upload] uploading %q (%.1f MB)", meta.Title, float64(fi.Size())/1024/1024)

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f, googleapi.ChunkSize(uploadChunkSize))
	call.ProgressUpdater(func(current, _ int64) {
		if fi.Size() > 0 {
			log.Printf("[upload] %d%% (%d/%d bytes)", current*100/fi.Size(), current, fi.Size())
		}
	})

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("[upload] ✅ uploaded: %s", videoURL)
	return uploaded.Id, videoURL, nil
}
