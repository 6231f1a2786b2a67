package services

import (
	"fmt"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func populateCrestURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil || team.CrestKey == nil || uploader == nil {
		return
	}
	url := uploader.GetPublicURL(*team.CrestKey)
	team.CrestURL = &url
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/png":
		return ".png", nil
	case "image/jpeg":
		return ".jpg", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", fmt.Errorf("%w: unsupported crest content type %q", ErrValidationFailed, contentType)
}
