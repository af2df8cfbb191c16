package config

import "github.com/allisson/go-env"

type Download struct{}

var _ DownloadConfig = Download{}

func (Download) GetDownloadDir() string {
	return env.GetString("EFACT_DOWNLOAD_DIR", ".")
}

func (Download) GetDefaultTextMimeType() string {
	return "text/xml"
}
