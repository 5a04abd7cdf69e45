package actresslib

import "time"

// sampleRecords is the bootstrap set installed when the store is empty
// or its payload cannot be parsed at all.
func sampleRecords(now time.Time) []Record {
	return []Record{
		{
			Slug:     "emma-stone",
			Name:     "Emma Stone",
			Category: "worldwide",
			Tags:     []string{"oscar", "comedy", "hollywood"},
			Websites: []Website{
				{Name: "Instagram", URL: "https://instagram.com/emmastone", Type: TypeInstagram},
				{Name: "Wikipedia", URL: "https://en.wikipedia.org/wiki/Emma_Stone", Type: TypeWikipedia},
			},
			Gallery: []string{
				"https://via.placeholder.com/400x600/ef4444/fff?text=Emma+Stone+1",
				"https://via.placeholder.com/400x600/ef4444/fff?text=Emma+Stone+2",
			},
			Thumb:     "https://via.placeholder.com/300x240/ef4444/fff?text=Emma+Stone",
			Views:     15,
			CreatedAt: now,
		},
		{
			Slug:     "megan-fox",
			Name:     "Megan Fox",
			Category: "worldwide",
			Tags:     []string{"action", "model", "transformers"},
			Websites: []Website{
				{Name: "Instagram", URL: "https://instagram.com/meganfox", Type: TypeInstagram},
			},
			Gallery: []string{
				"https://via.placeholder.com/400x600/ef4444/fff?text=Megan+Fox+1",
			},
			Thumb:     "https://via.placeholder.com/300x240/ef4444/fff?text=Megan+Fox",
			Views:     8,
			CreatedAt: now,
		},
		{
			Slug:     "lisa",
			Name:     "Lisa",
			Category: "japanese",
			Tags:     []string{"singer", "japanese", "model"},
			Websites: []Website{
				{Name: "Instagram", URL: "https://www.instagram.com/lalalalisa_m/", Type: TypeInstagram},
			},
			Gallery: []string{
				"https://via.placeholder.com/400x600/ef4444/fff?text=Lisa+1",
			},
			Thumb:     "https://via.placeholder.com/300x240/ef4444/fff?text=Lisa",
			Views:     23,
			CreatedAt: now,
		},
	}
}
