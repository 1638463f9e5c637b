package query

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/holonet/swapi-proxy/pkg/upstream"
)

// person exposes the only field the hero aggregate reads.
type person struct {
	Name string `json:"name"`
}

// CommonHeroes returns the names of the people mentioned in the most
// opening crawls. A mention is an exact substring match of the person's
// name. Every name tied at the maximum count is included, in
// people-collection order.
func CommonHeroes(films, people upstream.Collection) ([]string, error) {
	crawls := make([]string, 0, len(films.Results))
	for _, raw := range films.Results {
		var f film
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse film: %w", err)
		}
		crawls = append(crawls, f.OpeningCrawl)
	}

	byCount := make(map[int][]string)
	maxCount := 0

	for _, raw := range people.Results {
		var p person
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parse person: %w", err)
		}

		count := 0
		for _, crawl := range crawls {
			if strings.Contains(crawl, p.Name) {
				count++
			}
		}
		byCount[count] = append(byCount[count], p.Name)
		if count > maxCount {
			maxCount = count
		}
	}

	heroes := byCount[maxCount]
	if heroes == nil {
		heroes = []string{}
	}
	return heroes, nil
}
