package models

// Vacancy is a single job listing normalized from a source API response.
type Vacancy struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Employer string  `json:"employer,omitempty"`
	URL      string  `json:"url,omitempty"`
	Source   string  `json:"source"`
	Salary   *Salary `json:"salary,omitempty"` // nil when the listing has no salary block
}

// Salary is the reported pay range of a vacancy. A zero bound means the
// source did not report it.
type Salary struct {
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Currency string  `json:"currency,omitempty"`
}
