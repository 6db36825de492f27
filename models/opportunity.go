package models

// Opportunity is a marketplace listing.
type Opportunity struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Type          string   `json:"type"` // job, gig, volunteer, freelance, mentorship, learning, support, barter, collaboration
	CategoryLabel string   `json:"categoryLabel"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	OfferedBy     string   `json:"offeredBy"`
	OfferedByID   string   `json:"offeredById"`
	Icon          string   `json:"icon,omitempty"`
}

// OpportunitiesData is the layout of the opportunities data file.
type OpportunitiesData struct {
	Categories    []OpportunityCategory `json:"categories"`
	Opportunities []Opportunity         `json:"opportunities"`
}

type OpportunityCategory struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// OpportunitySearchCriteria filters listings. Empty or "all" fields match everything.
type OpportunitySearchCriteria struct {
	Type      string
	Tag       string
	OfferedBy string
	Query     string
}
