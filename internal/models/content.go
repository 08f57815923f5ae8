package models

// LevelInfo describes a CEFR level on the levels section
type LevelInfo struct {
	Code        Level  `yaml:"code" json:"code"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"desc" json:"desc"`
}

// Service is a course programme shown on the services section
type Service struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Image       string `yaml:"image" json:"image"`
}

// Testimonial is a student quote with a 1-5 rating
type Testimonial struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
	Rating  int    `yaml:"rating" json:"rating"`
}

// Hero is the headline block of the home view
type Hero struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Image    string `yaml:"image" json:"image"`
}

// About is the copy of the about view
type About struct {
	Title   string   `yaml:"title" json:"title"`
	Body    string   `yaml:"body" json:"body"`
	Contact []string `yaml:"contact" json:"contact"`
}

// Content is the full site content catalog
type Content struct {
	Hero         Hero          `json:"hero"`
	Levels       []LevelInfo   `json:"levels"`
	Services     []Service     `json:"services"`
	Testimonials []Testimonial `json:"testimonials"`
	Courses      []string      `json:"courses"`
	About        About         `json:"about"`
}
