package services

import (
	"testing"

	"HDTN/models"

	"github.com/stretchr/testify/require"
)

func TestOpportunities_Bundled(t *testing.T) {
	req := require.New(t)
	s, err := NewOpportunityService()
	req.NoError(err)

	req.Len(s.All(), 9)
	req.Len(s.Categories(), 10)
	req.Equal("all", s.Categories()[0].Type)
	req.Contains(s.Tags(), "React")
}

func TestOpportunities_Search(t *testing.T) {
	req := require.New(t)
	s, err := NewOpportunityService()
	req.NoError(err)

	req.Len(s.Search(models.OpportunitySearchCriteria{}), 9)
	req.Len(s.Search(models.OpportunitySearchCriteria{Type: "all"}), 9)

	gigs := s.Search(models.OpportunitySearchCriteria{Type: "gig"})
	req.Len(gigs, 1)
	req.Equal("mp002", gigs[0].ID)

	react := s.Search(models.OpportunitySearchCriteria{Tag: "react"})
	req.Len(react, 3)

	req.Len(s.Search(models.OpportunitySearchCriteria{Type: "job", Tag: "React"}), 1)
	req.Len(s.Search(models.OpportunitySearchCriteria{OfferedBy: "user004"}), 2)
	req.Len(s.Search(models.OpportunitySearchCriteria{Query: "shelter"}), 1)
	req.Empty(s.Search(models.OpportunitySearchCriteria{Type: "barter", Tag: "Python"}))
}

func TestOpportunities_Get(t *testing.T) {
	req := require.New(t)
	s, err := NewOpportunityService()
	req.NoError(err)

	o, err := s.Get("mp005")
	req.NoError(err)
	req.Equal("user002", o.OfferedByID)

	_, err = s.Get("mp999")
	req.ErrorIs(err, ErrOpportunityNotFound)

	_, err = NewOpportunityServiceFromJSON([]byte("{"))
	req.Error(err)
}
