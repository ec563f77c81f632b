package scanner

import (
	"fmt"
	"sort"
	"strings"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/utils"
)

// Config holds the detector thresholds.
type Config struct {
	PriceMovePctThreshold float64
	ClusterMinSellers     int
	ClusterWindowDays     int
}

// Scanner inspects merged source results for the fixed red-flag categories.
// It is stateless; a scan never mutates its inputs.
type Scanner struct {
	cfg Config
}

// New creates a red-flag scanner.
func New(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan runs every detector over the results and returns the red flags in
// category-priority order, deduplicated per category and ticker.
func (s *Scanner) Scan(results []entity.SourceResult) []entity.RedFlag {
	var flags []entity.RedFlag

	for _, result := range results {
		if !result.OK() {
			continue
		}
		switch payload := result.Payload.(type) {
		case entity.SnapshotPayload:
			flags = append(flags, s.scanSnapshots(payload)...)
		case *entity.SnapshotPayload:
			flags = append(flags, s.scanSnapshots(*payload)...)
		case entity.InsiderPayload:
			flags = append(flags, s.scanInsiders(payload)...)
		case *entity.InsiderPayload:
			flags = append(flags, s.scanInsiders(*payload)...)
		case entity.FilingsPayload:
			flags = append(flags, s.scanFilings(payload)...)
		case *entity.FilingsPayload:
			flags = append(flags, s.scanFilings(*payload)...)
		case entity.NewsPayload:
			flags = append(flags, s.scanHeadlines(payload)...)
		case *entity.NewsPayload:
			flags = append(flags, s.scanHeadlines(*payload)...)
		}
	}

	flags = dedupe(flags)
	sort.SliceStable(flags, func(i, j int) bool {
		if flags[i].Category.Priority() != flags[j].Category.Priority() {
			return flags[i].Category.Priority() < flags[j].Category.Priority()
		}
		if flags[i].Ticker != flags[j].Ticker {
			return flags[i].Ticker < flags[j].Ticker
		}
		return flags[i].Evidence < flags[j].Evidence
	})
	return flags
}

func (s *Scanner) scanSnapshots(payload entity.SnapshotPayload) []entity.RedFlag {
	var flags []entity.RedFlag
	for _, snap := range payload.Snapshots {
		if snap.PriceChangePct == nil {
			continue
		}
		change := *snap.PriceChangePct
		if change < 0 {
			change = -change
		}
		if change > s.cfg.PriceMovePctThreshold {
			flags = append(flags, entity.RedFlag{
				Category: entity.FlagLargePriceMove,
				Ticker:   snap.Ticker,
				Evidence: fmt.Sprintf("1-day move %+.2f%% exceeds %.1f%% threshold", *snap.PriceChangePct, s.cfg.PriceMovePctThreshold),
			})
		}
	}
	return flags
}

func (s *Scanner) scanInsiders(payload entity.InsiderPayload) []entity.RedFlag {
	var flags []entity.RedFlag
	for ticker, activity := range payload.Activity {
		if activity.ClusterAlert || DetectClusterSelling(activity.Transactions, s.cfg.ClusterMinSellers, s.cfg.ClusterWindowDays) {
			flags = append(flags, entity.RedFlag{
				Category: entity.FlagInsiderClusterSelling,
				Ticker:   ticker,
				Evidence: fmt.Sprintf("%d insider transactions with clustered selling in a %d-day window", len(activity.Transactions), s.cfg.ClusterWindowDays),
			})
		}
	}
	return flags
}

// filingDetectors maps 8-K item numbers and form keywords to categories.
var filingItemCategories = map[string]entity.RedFlagCategory{
	"5.02": entity.FlagLeadershipDeparture,
	"4.01": entity.FlagAuditorChange,
	"2.04": entity.FlagDebtCovenantDowngrade,
	"3.02": entity.FlagDilutiveOffering,
}

var dilutiveFormPrefixes = []string{"S-1", "S-3", "424B"}

func (s *Scanner) scanFilings(payload entity.FilingsPayload) []entity.RedFlag {
	var flags []entity.RedFlag
	for ticker, filings := range payload.Filings {
		for _, filing := range filings {
			for _, item := range filing.Items {
				if category, ok := filingItemCategories[strings.TrimSpace(item)]; ok {
					flags = append(flags, entity.RedFlag{
						Category: category,
						Ticker:   ticker,
						Evidence: fmt.Sprintf("%s filed %s (item %s)", filing.FilingType, filing.FiledDate, item),
					})
				}
			}
			for _, prefix := range dilutiveFormPrefixes {
				if strings.HasPrefix(filing.FilingType, prefix) {
					flags = append(flags, entity.RedFlag{
						Category: entity.FlagDilutiveOffering,
						Ticker:   ticker,
						Evidence: fmt.Sprintf("%s registration filed %s", filing.FilingType, filing.FiledDate),
					})
					break
				}
			}
		}
	}
	return flags
}

var headlineDetectors = []struct {
	category entity.RedFlagCategory
	keywords []string
}{
	{entity.FlagGuidanceCut, []string{"cuts guidance", "lowers guidance", "guidance cut", "cuts outlook", "lowers outlook", "slashes forecast", "lowers forecast"}},
	{entity.FlagCustomerLoss, []string{"loses customer", "customer loss", "lost contract", "contract cancelled", "contract canceled", "loses key account"}},
	{entity.FlagRegulatorySetback, []string{"sec investigation", "doj probe", "regulatory setback", "antitrust", "export ban", "license revoked", "regulators block"}},
	{entity.FlagShortSellerReport, []string{"short seller", "short-seller", "short report"}},
	{entity.FlagDebtCovenantDowngrade, []string{"downgrade", "credit rating cut", "covenant breach"}},
	{entity.FlagLeadershipDeparture, []string{"ceo resigns", "cfo resigns", "ceo steps down", "cfo steps down", "ceo departs", "cfo departs"}},
}

func (s *Scanner) scanHeadlines(payload entity.NewsPayload) []entity.RedFlag {
	var flags []entity.RedFlag
	for _, headline := range payload.Headlines {
		text := strings.ToLower(headline.Title + " " + headline.Excerpt)
		for _, detector := range headlineDetectors {
			for _, keyword := range detector.keywords {
				if strings.Contains(text, keyword) {
					for _, ticker := range headline.Tickers {
						flags = append(flags, entity.RedFlag{
							Category: detector.category,
							Ticker:   ticker,
							Evidence: headline.Title,
						})
					}
					break
				}
			}
		}
	}
	return flags
}

// DetectClusterSelling reports whether at least minSellers distinct
// insiders sold within any windowDays-day window.
func DetectClusterSelling(transactions []entity.InsiderTransaction, minSellers, windowDays int) bool {
	type sale struct {
		date   int64
		seller string
	}
	var sells []sale
	for _, tx := range transactions {
		if !strings.Contains(tx.TradeType, "Sale") && !strings.Contains(tx.TradeType, "S -") {
			continue
		}
		d, err := utils.ParseISODate(tx.TradeDate)
		if err != nil {
			continue
		}
		sells = append(sells, sale{date: d.Unix(), seller: tx.InsiderName})
	}
	if len(sells) < minSellers {
		return false
	}

	sort.Slice(sells, func(i, j int) bool { return sells[i].date < sells[j].date })

	window := int64(windowDays) * 24 * 3600
	for i := range sells {
		end := sells[i].date + window
		sellers := make(map[string]struct{})
		for j := i; j < len(sells) && sells[j].date <= end; j++ {
			sellers[sells[j].seller] = struct{}{}
		}
		if len(sellers) >= minSellers {
			return true
		}
	}
	return false
}

func dedupe(flags []entity.RedFlag) []entity.RedFlag {
	seen := make(map[string]struct{}, len(flags))
	out := flags[:0]
	for _, flag := range flags {
		key := string(flag.Category) + "|" + flag.Ticker
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, flag)
	}
	return out
}
