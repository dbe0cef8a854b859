package domain

import (
	"github.com/ostrauer/briefshelf-backend/internal/domain/analytics"
	"github.com/ostrauer/briefshelf-backend/internal/domain/catalog"
	"github.com/ostrauer/briefshelf-backend/internal/domain/leads"
)

// Catalog
type Book = catalog.Book
type ChatLog = catalog.ChatLog
type Summary = catalog.Summary
type Suggestion = catalog.Suggestion

const (
	BookStatusPending    = catalog.BookStatusPending
	BookStatusProcessing = catalog.BookStatusProcessing
	BookStatusCompleted  = catalog.BookStatusCompleted
	BookStatusFailed     = catalog.BookStatusFailed

	SummaryStyleConcise    = catalog.SummaryStyleConcise
	SummaryStyleNarrative  = catalog.SummaryStyleNarrative
	SummaryStyleAnalytical = catalog.SummaryStyleAnalytical

	SummaryLengthShort  = catalog.SummaryLengthShort
	SummaryLengthMedium = catalog.SummaryLengthMedium
	SummaryLengthLong   = catalog.SummaryLengthLong
)

// Leads
type DentistLead = leads.DentistLead
type AdvisorLead = leads.AdvisorLead
type PostalCode = leads.PostalCode

const (
	EmailStatusOK        = leads.EmailStatusOK
	EmailStatusIsRole    = leads.EmailStatusIsRole
	EmailStatusAcceptAll = leads.EmailStatusAcceptAll
	EmailStatusUnknown   = leads.EmailStatusUnknown
)

// Analytics snapshots
type MonthCount = analytics.MonthCount
type DayCount = analytics.DayCount
type TagCount = analytics.TagCount
type StatusCount = analytics.StatusCount
type ChatLogStats = analytics.ChatLogStats
type SummaryStats = analytics.SummaryStats
type UsageStats = analytics.UsageStats
type CampaignCounts = analytics.CampaignCounts
type CampaignStats = analytics.CampaignStats
