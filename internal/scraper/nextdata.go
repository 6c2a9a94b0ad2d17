package scraper

// NextDataPage represents the slice of the __NEXT_DATA__ script embedded in
// Wallapop search pages that carries the initial search results. Used as a
// fallback when the rendered card markup yields nothing.
type NextDataPage struct {
	Props struct {
		PageProps struct {
			InitialResults struct {
				Items []NextDataItem `json:"items"`
			} `json:"initialSearchResults"`
		} `json:"pageProps"`
	} `json:"props"`
}

type NextDataItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"price"`
	Location struct {
		City     string  `json:"city"`
		Distance float64 `json:"distance"`
	} `json:"location"`
	Images []struct {
		Original string `json:"original"`
	} `json:"images"`
	WebSlug        string `json:"web_slug"`
	TypeAttributes struct {
		Year struct {
			Value string `json:"value"`
		} `json:"year"`
		Km struct {
			Value string `json:"value"`
		} `json:"km"`
		Engine struct {
			Value string `json:"value"`
		} `json:"engine"`
		Gearbox struct {
			Value string `json:"value"`
		} `json:"gearbox"`
		Horsepower struct {
			Value string `json:"value"`
		} `json:"horsepower"`
	} `json:"type_attributes"`
}
