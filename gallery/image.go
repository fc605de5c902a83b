package gallery

import "strings"

// PlaceholderImage is used when no keyword matches a project title.
const PlaceholderImage = "/images/project-placeholder.svg"

type imageRule struct {
	keywords []string
	image    string
}

// Order matters: the first rule with a matching keyword wins.
var imageRules = []imageRule{
	{[]string{"inputguard", "guard"}, "/images/projects/inputguard.svg"},
	{[]string{"browser", "agent"}, "/images/projects/browser-agent.svg"},
	{[]string{"task", "todo"}, "/images/projects/tasks.svg"},
	{[]string{"weather"}, "/images/projects/weather.svg"},
	{[]string{"algo"}, "/images/projects/algorithm.svg"},
	{[]string{"dashboard"}, "/images/projects/dashboard.svg"},
	{[]string{"ecommerce"}, "/images/projects/ecommerce.svg"},
	{[]string{"thinkpart"}, "/images/projects/thinkpart.svg"},
	{[]string{"recruit"}, "/images/projects/recruit-assistant.svg"},
	{[]string{"insight", "rag"}, "/images/projects/insight-rag.svg"},
}

// FallbackImage picks an illustration for a project without an image.
// An empty title always yields PlaceholderImage.
func FallbackImage(title string) string {
	if title == "" {
		return PlaceholderImage
	}
	t := strings.ToLower(title)
	for _, r := range imageRules {
		for _, k := range r.keywords {
			if strings.Contains(t, k) {
				return r.image
			}
		}
	}
	return PlaceholderImage
}

// FallbackImages lists every image FallbackImage can return.
func FallbackImages() []string {
	out := []string{PlaceholderImage}
	for _, r := range imageRules {
		out = append(out, r.image)
	}
	return out
}
