package gallery

import (
	"net/url"
	"strings"
)

// Playback describes how a video URL is rendered in the video overlay.
type Playback struct {
	// URL is the address handed to the player: the embeddable form for
	// hosted videos, the original URL for direct media.
	URL string
	// Embed selects an iframe player. When false the URL is played by a
	// native <video> element with controls and autoplay.
	Embed bool
}

// embedHosts is the allow-list of video hosts played in an iframe, keyed
// by lowercased host name.
var embedHosts = map[string]string{
	"youtube.com":      "youtube",
	"www.youtube.com":  "youtube",
	"m.youtube.com":    "youtube",
	"youtu.be":         "youtu.be",
	"www.youtu.be":     "youtu.be",
	"drive.google.com": "drive",
	"vimeo.com":        "vimeo",
	"www.vimeo.com":    "vimeo",
	"player.vimeo.com": "vimeo-player",
}

// ClassifyVideo maps a video URL onto a Playback. Only the hosts in the
// allow-list are embedded; everything else is treated as direct media.
func ClassifyVideo(raw string) Playback {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Playback{URL: raw}
	}
	scheme := strings.ToLower(u.Scheme)
	kind, ok := embedHosts[strings.ToLower(u.Hostname())]
	if !ok || (scheme != "http" && scheme != "https") {
		return Playback{URL: raw}
	}
	return Playback{URL: embedURL(raw, u, kind), Embed: true}
}

func embedURL(raw string, u *url.URL, kind string) string {
	path := strings.Trim(u.Path, "/")

	switch kind {
	case "youtube":
		if strings.HasPrefix(path, "embed/") {
			return raw
		}
		if id := u.Query().Get("v"); path == "watch" && id != "" {
			return youtubeEmbed(u, id)
		}
		if id, ok := strings.CutPrefix(path, "shorts/"); ok && id != "" {
			return youtubeEmbed(u, id)
		}
	case "youtu.be":
		if path != "" && !strings.Contains(path, "/") {
			return "https://www.youtube.com/embed/" + path
		}
	case "drive":
		if strings.HasSuffix(path, "/preview") {
			return raw
		}
		if base, ok := strings.CutSuffix(path, "/view"); ok {
			return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + "/" + base + "/preview"
		}
	case "vimeo":
		if path != "" && !strings.Contains(path, "/") {
			return "https://player.vimeo.com/video/" + path
		}
	}
	return raw
}

// youtubeEmbed keeps the host the link was written with, except that the
// mobile site has no embed player.
func youtubeEmbed(u *url.URL, id string) string {
	host := strings.ToLower(u.Host)
	if strings.HasPrefix(host, "m.") {
		host = "www." + strings.TrimPrefix(host, "m.")
	}
	return strings.ToLower(u.Scheme) + "://" + host + "/embed/" + id
}
