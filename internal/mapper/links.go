package mapper

import (
	"regexp"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/metadata"
)

type linkPattern struct {
	provider string
	url      *regexp.Regexp
}

var linkPatterns = []linkPattern{
	{metadata.ProviderMusicBrainz, regexp.MustCompile(`musicbrainz\.org/(?:release-group|release|recording|work)/([0-9a-fA-F-]{36})`)},
	{metadata.ProviderDiscogs, regexp.MustCompile(`discogs\.com/(?:[^/]+/)?(?:release|master)/(\d+)`)},
	{metadata.ProviderVGMdb, regexp.MustCompile(`vgmdb\.(?:net|info)/album/(\d+)`)},
	{metadata.ProviderSpotify, regexp.MustCompile(`open\.spotify\.com/(?:intl-[a-z]+/)?(?:album|track)/([A-Za-z0-9]+)`)},
}

var (
	amazonDescription = regexp.MustCompile(`^Amazon( ((LE|RE|JP|US)).*)?$`)
	amazonASIN        = regexp.MustCompile(`/dp/(.+?)(/|$)`)
)

// externalIDs collects foreign provider IDs from enabled links. The first
// link per provider wins. The record's own ID is stored under ownKey.
func externalIDs(links []catalog.WebLink, ownKey, ownID string) metadata.ExternalIDs {
	ids := metadata.ExternalIDs{}
	for _, link := range links {
		if link.Disabled {
			continue
		}
		for _, p := range linkPatterns {
			if _, ok := ids[p.provider]; ok {
				continue
			}
			if m := p.url.FindStringSubmatch(link.URL); m != nil {
				ids[p.provider] = m[1]
			}
		}
	}
	if asin := findASIN(links); asin != "" {
		ids[metadata.ProviderAmazon] = asin
	}
	if ownKey != "" && ownID != "" {
		ids[ownKey] = ownID
	}
	return ids
}

// findASIN returns the product ID of the first enabled Amazon store link.
func findASIN(links []catalog.WebLink) string {
	for _, link := range links {
		if link.Disabled || !amazonDescription.MatchString(link.Description) {
			continue
		}
		if m := amazonASIN.FindStringSubmatch(link.URL); m != nil {
			return m[1]
		}
	}
	return ""
}
