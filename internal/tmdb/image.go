package tmdb

// DefaultImageBaseURL is the TMDB image host with the w500 size prefix.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

// ImageURL builds a display URL from a relative image path.
//
// A nil path produces the base URL followed by "null", matching what the
// image host has always been sent for entries without artwork. Callers that
// want an empty string for missing artwork should use Item.PosterURL.
func (c *Client) ImageURL(path *string) string {
	return imageURL(c.imageBaseURL, path)
}

// PosterURL returns the full poster URL for the item using the default
// image host, or "" when the item has no poster.
func (it Item) PosterURL() string {
	if it.PosterPath == nil || *it.PosterPath == "" {
		return ""
	}
	return imageURL(DefaultImageBaseURL, it.PosterPath)
}

func imageURL(base string, path *string) string {
	if path == nil {
		return base + "null"
	}
	return base + *path
}
