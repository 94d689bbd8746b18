package vz

import (
	"regexp"
	"strings"
)

const photo_path = "/photo/"

// size suffix of the medium thumbnails the site links to, ex. "abcmed.jpg"
const photo_size_suffix_len = len("med")

var photoExtensionRegex = regexp.MustCompile(`\.\w+$`)

// PhotoToken derives the `photo` field of SendMessageRequest from a profile
// image url on the site: the path below /photo/ without extension and size
// suffix. Urls that do not point into /photo/ are returned unchanged.
func (c *Client) PhotoToken(imageUrl string) string {
	prefix := strings.TrimRight(c.BaseUrl.String(), "/") + photo_path
	if !strings.HasPrefix(imageUrl, prefix) {
		return imageUrl
	}
	token := strings.TrimPrefix(imageUrl, prefix)
	token = photoExtensionRegex.ReplaceAllString(token, "")
	if len(token) < photo_size_suffix_len {
		return ""
	}
	return token[:len(token)-photo_size_suffix_len]
}
