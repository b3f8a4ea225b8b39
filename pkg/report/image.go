package report

import (
	"context"

	"instarecon/pkg/instagram"
	"instarecon/pkg/logger"
	"instarecon/pkg/storage"
)

// ImageDownloader fetches image bytes
type ImageDownloader interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// PictureFileName is the profile picture file name for username
func PictureFileName(username string) string {
	return username + "_profile_pic.jpg"
}

// DownloadProfilePicture saves the profile picture next to the other reports
// and returns its file name relative to the output directory. Every failure
// is logged and yields "".
func DownloadProfilePicture(ctx context.Context, dl ImageDownloader, store *storage.Manager, p *instagram.Profile, log logger.Logger) string {
	targetLog := log.WithField("username", p.Target)

	picURL := p.User.PictureURL()
	if picURL == "" {
		targetLog.Warn("no profile picture URL found")
		return ""
	}

	data, err := dl.DownloadImage(ctx, picURL)
	if err != nil {
		targetLog.WithError(err).Warn("failed to download profile picture")
		return ""
	}

	name := PictureFileName(p.Target)
	path, err := store.WriteFile(name, data)
	if err != nil {
		targetLog.WithError(err).Warn("failed to save profile picture")
		return ""
	}

	logger.LogArtifact(log, p.Target, "profile_picture", path)
	return name
}
