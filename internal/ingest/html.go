package ingest

import (
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bto-enrich/internal/listing"
)

const brochureLinkKey = "Brochure Link"

// readHTMLRows extracts listing rows from a saved listing page. Header
// texts come from every table th in document order; each tr with td cells
// becomes one row. A cell under a header mentioning "Brochure" also
// contributes its anchor href as "Brochure Link".
func readHTMLRows(path string) ([]listing.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer f.Close() //nolint:errcheck

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}

	var headers []string
	doc.Find("table th").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(s.Text()))
	})

	var rows []listing.Row
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		row := listing.Row{}
		cells.Each(func(i int, td *goquery.Selection) {
			if i >= len(headers) {
				return
			}
			header := headers[i]
			row = row.Set(header, strings.TrimSpace(td.Text()))

			if strings.Contains(header, "Brochure") {
				if a := td.Find("a").First(); a.Length() > 0 {
					var link any
					if href, ok := a.Attr("href"); ok {
						link = href
					}
					row = row.Set(brochureLinkKey, link)
				}
			}
		})
		rows = append(rows, row)
	})

	return rows, nil
}
