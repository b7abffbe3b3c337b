package recipe

import "github.com/metcalfc/pantry/internal/doc"

// Locator finds recipe tables in a document body.
type Locator struct {
	host         doc.Host
	codec        *Codec
	titleHeading doc.Heading
}

// NewLocator returns a locator treating paragraphs at titleHeading as recipe
// titles.
func NewLocator(host doc.Host, codec *Codec, titleHeading doc.Heading) *Locator {
	return &Locator{host: host, codec: codec, titleHeading: titleHeading}
}

// Locate removes the markers left by a previous pass and returns every
// recipe in document order.
//
// A title applies to the first table after it; a page break in between
// drops the title. Later tables under the same title are not recipes.
func (l *Locator) Locate() ([]Recipe, error) {
	for _, nr := range l.host.NamedRanges(l.codec.RangeName()) {
		nr.Remove()
	}

	body := l.host.Body()
	n := body.NumChildren()

	tocIndex := -1
	var toc doc.TableOfContents
	for i := 0; i < n; i++ {
		el := body.Child(i)
		if el.Kind() != doc.KindTableOfContents {
			continue
		}
		if t, ok := el.(doc.TableOfContents); ok {
			toc, tocIndex = t, i
			break
		}
	}
	if toc == nil {
		return nil, &NotFoundError{What: "table of contents"}
	}
	urls := TitleURLs(toc)

	var (
		recipes  []Recipe
		title    string
		hasTitle bool
	)
	for i := tocIndex + 1; i < n; i++ {
		el := body.Child(i)
		switch el.Kind() {
		case doc.KindParagraph:
			p, ok := el.(doc.Paragraph)
			if ok && p.Heading() == l.titleHeading {
				title, hasTitle = p.Text(), true
			}
		case doc.KindTable:
			if !hasTitle {
				continue
			}
			url, ok := urls[title]
			if !ok {
				return nil, &UnresolvedTitleError{Title: title}
			}
			t, ok := el.(doc.Table)
			if ok {
				r, found, err := l.codec.Decode(t, title, url)
				if err != nil {
					return nil, err
				}
				if found {
					recipes = append(recipes, r)
				}
			}
			title, hasTitle = "", false
		case doc.KindPageBreak:
			title, hasTitle = "", false
		}
	}
	return recipes, nil
}

// TitleURLs maps each linked paragraph of toc to its link target. Later
// entries with the same title win.
func TitleURLs(toc doc.TableOfContents) map[string]string {
	urls := make(map[string]string)
	for i := 0; i < toc.NumChildren(); i++ {
		p, ok := toc.Child(i).(doc.Paragraph)
		if !ok || p.Kind() != doc.KindParagraph {
			continue
		}
		if link := p.LinkURL(); link != "" {
			urls[p.Text()] = link
		}
	}
	return urls
}
