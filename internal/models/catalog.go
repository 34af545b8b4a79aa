package models

// People is a character in the catalog.
type People struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	BirthYear string `json:"birth_year"`
	Height    string `json:"height"`
	Mass      string `json:"mass"`
	HairColor string `json:"hair_color"`
	EyeColor  string `json:"eye_color"`
}

// Planet is a planet in the catalog.
type Planet struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Climate    string `json:"climate"`
	Terrain    string `json:"terrain"`
	Population string `json:"population"`
	Diameter   string `json:"diameter"`
	Gravity    string `json:"gravity"`
}
