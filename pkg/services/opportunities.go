package services

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"HDTN/models"

	"github.com/samber/lo"
)

//go:embed data/opportunities.json
var opportunitiesJSON []byte

var ErrOpportunityNotFound = errors.New("opportunity not found")

// OpportunityService serves the marketplace listings.
type OpportunityService struct {
	data models.OpportunitiesData
}

// NewOpportunityService loads the bundled listings.
func NewOpportunityService() (*OpportunityService, error) {
	return NewOpportunityServiceFromJSON(opportunitiesJSON)
}

func NewOpportunityServiceFromJSON(raw []byte) (*OpportunityService, error) {
	s := &OpportunityService{}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("error parsing opportunities JSON: %w", err)
	}
	return s, nil
}

func (s *OpportunityService) All() []models.Opportunity {
	return append([]models.Opportunity(nil), s.data.Opportunities...)
}

func (s *OpportunityService) Categories() []models.OpportunityCategory {
	return append([]models.OpportunityCategory(nil), s.data.Categories...)
}

// Search filters listings by type, tag, offerer and a free-text query.
// Tag and query matching ignore case.
func (s *OpportunityService) Search(c models.OpportunitySearchCriteria) []models.Opportunity {
	typ := strings.ToLower(strings.TrimSpace(c.Type))
	tag := strings.TrimSpace(c.Tag)
	query := strings.ToLower(strings.TrimSpace(c.Query))

	return lo.Filter(s.data.Opportunities, func(o models.Opportunity, _ int) bool {
		if typ != "" && typ != "all" && o.Type != typ {
			return false
		}
		if tag != "" && !lo.ContainsBy(o.Tags, func(t string) bool { return strings.EqualFold(t, tag) }) {
			return false
		}
		if c.OfferedBy != "" && o.OfferedByID != c.OfferedBy {
			return false
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(o.Title), query) &&
			!strings.Contains(strings.ToLower(o.Description), query) {
			return false
		}
		return true
	})
}

func (s *OpportunityService) Get(id string) (*models.Opportunity, error) {
	o, ok := lo.Find(s.data.Opportunities, func(o models.Opportunity) bool { return o.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOpportunityNotFound, id)
	}
	return &o, nil
}

// Tags returns every tag in use, in first-seen order.
func (s *OpportunityService) Tags() []string {
	return lo.Uniq(lo.FlatMap(s.data.Opportunities, func(o models.Opportunity, _ int) []string { return o.Tags }))
}
