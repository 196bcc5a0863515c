package service

import (
	"fmt"
	"log"
	"strconv"

	"github.com/linksgen/linksbot/internal/clients/sheets"
	"github.com/linksgen/linksbot/internal/clients/vkapi"
)

const (
	linksColumn = "C"
	statsColumn = "F"

	statsInterval = "day"
)

// SheetsGateway is the part of the spreadsheet client the orchestration uses.
type SheetsGateway interface {
	CreateSheets(titles []string) error
	MakeHeaders() error
	GetPartnerAbbreviations() []string
	GetPartnerLinks() []string
	WriteColumn(column string, values []string) error
}

// ShortenerGateway is the part of the VK client the orchestration uses.
type ShortenerGateway interface {
	Shorten(longURL string, private bool) (string, error)
	GetLinkStats(shortURL, interval string) (*vkapi.LinkStats, error)
}

// LinkService sequences the multi-step campaign operations: provisioning the
// spreadsheet, generating per-partner short links and collecting click
// analytics. All external calls run sequentially, one round trip per partner
// row.
type LinkService struct {
	sheets    SheetsGateway
	shortener ShortenerGateway
}

func NewLinkService(sheets SheetsGateway, shortener ShortenerGateway) *LinkService {
	return &LinkService{sheets: sheets, shortener: shortener}
}

// CreateTable provisions the three campaign sheets and writes their headers.
func (s *LinkService) CreateTable() error {
	titles := []string{sheets.SheetEvent, sheets.SheetAnalytics, sheets.SheetPartners}
	if err := s.sheets.CreateSheets(titles); err != nil {
		return fmt.Errorf("create sheets: %w", err)
	}
	if err := s.sheets.MakeHeaders(); err != nil {
		return fmt.Errorf("make headers: %w", err)
	}
	return nil
}

// GenerateLinks builds a UTM-tagged short link for every partner abbreviation
// and writes the result into the link column. Row N's abbreviation maps to
// row N's short link, so the written order mirrors the read order exactly. A
// shortener failure leaves that row's cell empty and the loop continues.
// Returns the number of partner rows processed.
func (s *LinkService) GenerateLinks(baseURL string) (int, error) {
	abbrs := s.sheets.GetPartnerAbbreviations()
	if len(abbrs) == 0 {
		return 0, fmt.Errorf("no partner abbreviations found")
	}

	links := make([]string, len(abbrs))
	for i, abbr := range abbrs {
		short, err := s.shortener.Shorten(baseURL+"?utm_source="+abbr, false)
		if err != nil {
			log.Printf("Error shortening link for %q: %v", abbr, err)
			continue
		}
		links[i] = short
	}

	if err := s.sheets.WriteColumn(linksColumn, links); err != nil {
		return 0, fmt.Errorf("write links: %w", err)
	}
	return len(links), nil
}

// CollectAnalytics fetches click statistics for every generated short link,
// sums the views per link and writes the sums into the stats column in the
// same order the links were read. A failed stats fetch contributes zero and
// does not abort the remaining links. Returns the number of links processed.
func (s *LinkService) CollectAnalytics() (int, error) {
	links := s.sheets.GetPartnerLinks()
	if len(links) == 0 {
		return 0, fmt.Errorf("no partner links found")
	}

	sums := make([]string, len(links))
	for i, link := range links {
		stats, err := s.shortener.GetLinkStats(link, statsInterval)
		if err != nil {
			log.Printf("Error fetching stats for %q: %v", link, err)
			sums[i] = "0"
			continue
		}
		sums[i] = strconv.Itoa(stats.TotalViews())
	}

	if err := s.sheets.WriteColumn(statsColumn, sums); err != nil {
		return 0, fmt.Errorf("write stats: %w", err)
	}
	return len(sums), nil
}
