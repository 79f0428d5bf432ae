package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts case details from Delhi High Court case-status pages
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

type labeledValue struct {
	label string
	value string
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	dayNameRe    = regexp.MustCompile(`(?i)(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s*`)
	dateRe       = regexp.MustCompile(`\d{1,2}[-/.]\d{1,2}[-/.]\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}[- ][A-Za-z]{3,9}[- ]\d{4}`)

	filingDateRe  = regexp.MustCompile(`(?i)(?:filed\s+on|filing\s+date|date\s+of\s+filing)[:\s]*(` + dateRe.String() + `)`)
	nextHearingRe = regexp.MustCompile(`(?i)(?:next\s+hearing(?:\s+date)?|next\s+date|hearing\s+date)[:\s]*(` + dateRe.String() + `)`)
	statusRe      = regexp.MustCompile(`(?i)(?:current\s+status|status|stage)\s*:\s*([^\n\r]+)`)
	petitionerRe  = regexp.MustCompile(`(?i)(?:petitioner|appellant|plaintiff)\(?s?\)?\s*:\s*([^\n\r]+)`)
	respondentRe  = regexp.MustCompile(`(?i)(?:respondent|defendant)\(?s?\)?\s*:\s*([^\n\r]+)`)
)

// Parse extracts a CaseResult from a result page. baseURL resolves relative
// document links. A page without a case status is unparseable.
func (p *Parser) Parse(html, baseURL string) (*CaseResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnparseable, err)
	}

	result := &CaseResult{}
	var petitioners, respondents []string

	// Structured label/value pairs first, free text second
	for _, kv := range p.labeledValues(doc) {
		switch {
		case containsAny(kv.label, "petitioner", "appellant", "plaintiff"):
			petitioners = appendUnique(petitioners, kv.value)
		case containsAny(kv.label, "respondent", "defendant"):
			respondents = appendUnique(respondents, kv.value)
		case containsAny(kv.label, "parties", "party name"):
			if result.Parties == "" {
				result.Parties = kv.value
			}
		case containsAny(kv.label, "filing date", "date of filing", "filed on", "registration date"):
			if result.FilingDate == nil {
				result.FilingDate = parseDatePtr(kv.value)
			}
		case containsAny(kv.label, "next hearing", "next date", "hearing date"):
			if result.NextHearing == nil {
				result.NextHearing = parseDatePtr(kv.value)
			}
		case containsAny(kv.label, "status", "stage"):
			if result.Status == "" {
				result.Status = kv.value
			}
		}
	}

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	p.parseFromText(text, result, &petitioners, &respondents)

	if result.Parties == "" {
		result.Parties = joinParties(petitioners, respondents)
	}

	result.PDFLinks = p.extractPDFLinks(doc, baseURL)

	if result.Status == "" {
		return nil, fmt.Errorf("%w: no case status on page", errUnparseable)
	}
	return result, nil
}

// labeledValues collects label/value pairs from tables, definition lists
// and "<strong>Label:</strong> value" fragments.
func (p *Parser) labeledValues(doc *goquery.Document) []labeledValue {
	var pairs []labeledValue

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := normalizeLabel(cells.Eq(0).Text())
		value := normalizeText(cells.Eq(1).Text())
		if label != "" && value != "" {
			pairs = append(pairs, labeledValue{label: label, value: value})
		}
	})

	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return
		}
		label := normalizeLabel(dt.Text())
		value := normalizeText(dd.Text())
		if label != "" && value != "" {
			pairs = append(pairs, labeledValue{label: label, value: value})
		}
	})

	doc.Find("strong, b, label").Each(func(_ int, el *goquery.Selection) {
		raw := normalizeText(el.Text())
		if !strings.HasSuffix(raw, ":") {
			return
		}
		parent := normalizeText(el.Parent().Text())
		value := strings.TrimSpace(strings.TrimPrefix(parent, raw))
		if value == "" || value == parent {
			return
		}
		pairs = append(pairs, labeledValue{label: normalizeLabel(raw), value: value})
	})

	return pairs
}

// parseFromText fills whatever the structured pass missed using regex
// patterns over the page text.
func (p *Parser) parseFromText(text string, result *CaseResult, petitioners, respondents *[]string) {
	if result.FilingDate == nil {
		if m := filingDateRe.FindStringSubmatch(text); len(m) > 1 {
			result.FilingDate = parseDatePtr(m[1])
		}
	}
	if result.NextHearing == nil {
		if m := nextHearingRe.FindStringSubmatch(text); len(m) > 1 {
			result.NextHearing = parseDatePtr(m[1])
		}
	}
	if result.Status == "" {
		if m := statusRe.FindStringSubmatch(text); len(m) > 1 {
			result.Status = normalizeText(m[1])
		}
	}
	if result.Parties == "" && len(*petitioners) == 0 && len(*respondents) == 0 {
		for _, m := range petitionerRe.FindAllStringSubmatch(text, -1) {
			*petitioners = appendUnique(*petitioners, normalizeText(m[1]))
		}
		for _, m := range respondentRe.FindAllStringSubmatch(text, -1) {
			*respondents = appendUnique(*respondents, normalizeText(m[1]))
		}
	}
}

// extractPDFLinks returns absolute document links in page order, without
// duplicates.
func (p *Parser) extractPDFLinks(doc *goquery.Document, baseURL string) []string {
	base, _ := url.Parse(baseURL)
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		lowerHref := strings.ToLower(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(lowerHref, "javascript:") || strings.HasPrefix(lowerHref, "mailto:") {
			return
		}

		linkText := strings.ToLower(normalizeText(a.Text()))
		if !strings.HasSuffix(lowerHref, ".pdf") &&
			!strings.Contains(lowerHref, "pdf") &&
			!containsAny(linkText, "order", "judgment", "judgement", "download", "pdf") {
			return
		}

		links = appendUnique(links, resolveURL(base, href))
	})

	return links
}

// DetectNotFound reports whether the page says no case matched.
func DetectNotFound(html string) bool {
	lower := strings.ToLower(html)
	for _, phrase := range []string{
		"no records found",
		"no record found",
		"case not found",
		"record not found",
		"no case found",
		"invalid case",
	} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// DetectChallenge reports whether the page is an anti-automation barrier
// rather than a result: a rejected captcha, or a captcha form with no case
// details around it.
func DetectChallenge(html string) bool {
	lower := strings.ToLower(html)
	for _, phrase := range []string{
		"invalid captcha",
		"wrong captcha",
		"captcha mismatch",
		"incorrect captcha",
		"verify you are human",
		"are you a robot",
	} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	hasCaptcha := doc.Find(`img[src*="captcha"], img[id*="captcha"], input[name*="captcha"], input[id*="captcha"], div.g-recaptcha, iframe[src*="recaptcha"]`).Length() > 0
	if !hasCaptcha {
		return false
	}
	text := strings.ToLower(doc.Find("body").Text())
	return !containsAny(text, "petitioner", "respondent", "next date", "next hearing", "status:")
}

// parseDate parses the date formats used by Indian court systems
func parseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	dateStr = whitespaceRe.ReplaceAllString(dateStr, " ")
	dateStr = dayNameRe.ReplaceAllString(dateStr, "")

	if m := dateRe.FindString(dateStr); m != "" {
		dateStr = m
	}

	formats := []string{
		"02-01-2006",
		"2-1-2006",
		"02/01/2006",
		"2/1/2006",
		"02.01.2006",
		"02-Jan-2006",
		"02-January-2006",
		"02 Jan 2006",
		"02 January 2006",
		"2006-01-02",
	}

	for _, format := range formats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

func parseDatePtr(s string) *time.Time {
	d, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func joinParties(petitioners, respondents []string) string {
	switch {
	case len(petitioners) > 0 && len(respondents) > 0:
		return strings.Join(petitioners, ", ") + " vs. " + strings.Join(respondents, ", ")
	case len(petitioners) > 0:
		return strings.Join(petitioners, ", ")
	default:
		return strings.Join(respondents, ", ")
	}
}

func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func normalizeLabel(s string) string {
	s = strings.ToLower(normalizeText(s))
	return strings.TrimSpace(strings.TrimSuffix(s, ":"))
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
