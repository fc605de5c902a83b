package gallery

// PreviewTechs is how many technology chips a card shows before "+N".
const PreviewTechs = 3

// Card is a project as rendered in the grid.
type Card struct {
	Project
	Excerpt     string
	Truncatable bool
	Expanded    bool
	Preview     []string
	MoreTechs   int
}

// Text is the description the card currently shows.
func (c Card) Text() string {
	if c.Truncatable && !c.Expanded {
		return c.Excerpt
	}
	return c.Description
}

// ToggleLabel is the label of the read more control.
func (c Card) ToggleLabel() string {
	if c.Expanded {
		return "Show less"
	}
	return "Read more"
}

// View is everything a template needs to render the gallery.
type View struct {
	Featured []Card
	Regular  []Card
	Tags     []string
	Filter   string
	Detail   *Project
	Video    *Playback
}

// Empty reports whether no card is visible.
func (v View) Empty() bool { return len(v.Featured) == 0 && len(v.Regular) == 0 }

// View builds the render list: projects matching the filter, split into
// featured and regular groups, each in source order.
func (g *Gallery) View() View {
	v := View{Tags: g.Tags(), Filter: g.filter}
	for _, p := range g.projects {
		if g.filter != FilterAll && !p.HasTech(g.filter) {
			continue
		}
		c := g.card(p)
		if p.Featured {
			v.Featured = append(v.Featured, c)
		} else {
			v.Regular = append(v.Regular, c)
		}
	}
	if p, ok := g.Selected(); ok {
		v.Detail = &p
	}
	if url, ok := g.Playing(); ok {
		pb := ClassifyVideo(url)
		v.Video = &pb
	}
	return v
}

func (g *Gallery) card(p Project) Card {
	c := Card{Project: p, Expanded: g.expanded[p.ID]}
	c.Excerpt, c.Truncatable = Excerpt(p.Description)
	c.Preview = p.Technologies
	if len(c.Preview) > PreviewTechs {
		c.Preview = c.Preview[:PreviewTechs]
		c.MoreTechs = len(p.Technologies) - PreviewTechs
	}
	return c
}

// Tags lists every technology used by the gallery's projects, in the
// order each first appears.
func (g *Gallery) Tags() []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, p := range g.projects {
		for _, t := range p.Technologies {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}
