package bot

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// downloadClient is shared by all photo downloads.
var downloadClient = resty.New().SetTimeout(30 * time.Second)

// downloadFileID resolves a Telegram file ID to its direct URL and fetches the file.
func downloadFileID(
	getFileDirectURL func(fileID string) (string, error),
	fileID string,
) ([]byte, error) {
	log.Debug().Str("fileID", fileID).Msg("downloading telegram file")
	url, err := getFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}

	res, err := downloadClient.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to download file: status %d", res.StatusCode())
	}
	return res.Body(), nil
}
