package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	leadsrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/leads"
	statsrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/stats"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type Repos struct {
	Book        catalogrepo.BookRepo
	ChatLog     catalogrepo.ChatLogRepo
	Summary     catalogrepo.SummaryRepo
	Suggestion  catalogrepo.SuggestionRepo
	DentistLead leadsrepo.DentistLeadRepo
	AdvisorLead leadsrepo.AdvisorLeadRepo
	PostalCode  leadsrepo.PostalCodeRepo
	Signup      statsrepo.SignupRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Book:        catalogrepo.NewBookRepo(db, log),
		ChatLog:     catalogrepo.NewChatLogRepo(db, log),
		Summary:     catalogrepo.NewSummaryRepo(db, log),
		Suggestion:  catalogrepo.NewSuggestionRepo(db, log),
		DentistLead: leadsrepo.NewDentistLeadRepo(db, log),
		AdvisorLead: leadsrepo.NewAdvisorLeadRepo(db, log),
		PostalCode:  leadsrepo.NewPostalCodeRepo(db, log),
		Signup:      statsrepo.NewSignupRepo(db, log),
	}
}
