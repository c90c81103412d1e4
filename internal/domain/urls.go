package domain

import "fmt"

// Image size suffixes understood by the static image host
const (
	SizeSquare = "q" // 150x150
	SizeMedium = "z" // 640 on the longest side
	SizeLarge  = "b" // 1024 on the longest side
)

// ImageBaseURL is the host serving photo files
const ImageBaseURL = "https://live.staticflickr.com"

// ImageURL returns the default-size image location for a photo
func ImageURL(server, id, secret string) string {
	return fmt.Sprintf("%s/%s/%s_%s.jpg", ImageBaseURL, server, id, secret)
}

// ImageURLSize returns the image location for a photo at the given size suffix
func ImageURLSize(server, id, secret, size string) string {
	if size == "" {
		return ImageURL(server, id, secret)
	}
	return fmt.Sprintf("%s/%s/%s_%s_%s.jpg", ImageBaseURL, server, id, secret, size)
}

// PageURL returns the public web page of a photo
func PageURL(owner, id string) string {
	return fmt.Sprintf("https://www.flickr.com/photos/%s/%s", owner, id)
}

// URL returns the default image location of the photo
func (p Photo) URL() string {
	return ImageURL(p.Server, p.ID, p.Secret)
}
