package scraper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const caseStatusPath = "/app/get-case-type-status"

// Delhi High Court case-status form selectors.
const (
	caseTypeSelector     = "#case_type"
	caseNumberSelector   = "#case_number"
	caseYearSelector     = "#case_year"
	captchaCodeSelector  = "#captcha-code"
	captchaInputSelector = "#captchaInput"
	captchaImageSelector = "img#captcha_image, img[id*='captcha'], img[src*='captcha']"
	submitSelector       = "#search"
)

// RodFetcher drives a headless browser through the case-status form. Each
// call opens and closes its own tab.
type RodFetcher struct {
	cfg     *config.Config
	browser *rod.Browser
	logger  *logger.Logger
}

// NewRodFetcher launches the browser.
func NewRodFetcher(cfg *config.Config, log *logger.Logger) (*RodFetcher, error) {
	l := launcher.New().
		Headless(cfg.HeadlessMode).
		Set("user-agent", cfg.UserAgent).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")

	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		cfg:     cfg,
		browser: browser,
		logger:  log,
	}, nil
}

// FetchCaseStatus fills and submits the case-status form and returns the
// result page. Navigation and element failures are transient; an image
// captcha that cannot be read is a challenge.
func (f *RodFetcher) FetchCaseStatus(ctx context.Context, req CaseRequest) (*FetchedPage, error) {
	page, err := stealth.Page(f.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if _, err := page.SetExtraHeaders([]string{"Accept-Language", "en-US,en;q=0.9"}); err != nil {
		f.logger.Debug("Failed to set extra headers", "error", err)
	}

	courtURL := strings.TrimRight(f.cfg.CourtBaseURL, "/") + caseStatusPath
	f.logger.Info("Navigating to court website", "url", courtURL)

	navCtx, navCancel := context.WithTimeout(ctx, 15*time.Second)
	defer navCancel()
	if err := page.Context(navCtx).Navigate(courtURL); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		// The form is often usable before every resource finishes
		f.logger.Warn("Page load timeout", "error", err)
	}

	formCtx, formCancel := context.WithTimeout(ctx, 10*time.Second)
	defer formCancel()
	form := page.Context(formCtx)

	if err := selectOption(form, caseTypeSelector, req.CaseType); err != nil {
		return currentPage(page, courtURL), fmt.Errorf("case type: %w", err)
	}
	if err := inputText(form, caseNumberSelector, req.CaseNumber); err != nil {
		return currentPage(page, courtURL), fmt.Errorf("case number: %w", err)
	}
	if err := selectOption(form, caseYearSelector, strconv.Itoa(req.FilingYear)); err != nil {
		return currentPage(page, courtURL), fmt.Errorf("case year: %w", err)
	}

	if err := f.handleCaptcha(form); err != nil {
		return currentPage(page, courtURL), err
	}

	submitBtn, err := form.Element(submitSelector)
	if err != nil {
		return currentPage(page, courtURL), fmt.Errorf("submit button not found: %w", err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := submitBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return currentPage(page, courtURL), fmt.Errorf("failed to submit form: %w", err)
	}
	wait()

	result := currentPage(page, courtURL)
	if result == nil {
		return nil, errors.New("result page unreadable after submit")
	}
	return result, nil
}

// handleCaptcha copies the text captcha the portal prints next to the form.
// Image captchas are not solved.
func (f *RodFetcher) handleCaptcha(page *rod.Page) error {
	hasCode, codeEl, err := page.Has(captchaCodeSelector)
	if err != nil {
		return fmt.Errorf("captcha lookup: %w", err)
	}
	if hasCode {
		code, err := codeEl.Text()
		if err != nil || strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: captcha code unreadable", ErrChallengeBlocked)
		}
		if err := inputText(page, captchaInputSelector, strings.TrimSpace(code)); err != nil {
			return fmt.Errorf("%w: captcha input: %v", ErrChallengeBlocked, err)
		}
		f.logger.Debug("Entered text captcha")
		return nil
	}

	hasImage, _, err := page.Has(captchaImageSelector)
	if err != nil {
		return fmt.Errorf("captcha lookup: %w", err)
	}
	if hasImage {
		f.logger.Warn("Image captcha detected, manual intervention required")
		return fmt.Errorf("%w: image captcha present", ErrChallengeBlocked)
	}

	f.logger.Debug("No captcha found on page")
	return nil
}

// Close closes the browser.
func (f *RodFetcher) Close() error {
	return f.browser.Close()
}

func selectOption(page *rod.Page, selector, text string) error {
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("%s not found: %w", selector, err)
	}
	return el.Select([]string{text}, true, rod.SelectorTypeText)
}

func inputText(page *rod.Page, selector, text string) error {
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("%s not found: %w", selector, err)
	}
	return el.Input(text)
}

// currentPage snapshots the tab's HTML, or nil when nothing is readable.
func currentPage(page *rod.Page, fallbackURL string) *FetchedPage {
	html, err := page.HTML()
	if err != nil {
		return nil
	}
	pageURL := fallbackURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		pageURL = info.URL
	}
	return &FetchedPage{HTML: html, URL: pageURL}
}
