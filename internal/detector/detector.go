// Package detector fetches a business website and derives the quality
// signals used to score the business and build its audit.
package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// Defaults applied by New.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultUserAgent     = "Mozilla/5.0 (compatible; BusinessAnalyzer/1.0)"
	DefaultSlowThreshold = 3 * time.Second
	DefaultMaxBody       = 2 << 20

	minTitleLength = 10
)

// Issue and opportunity labels. Downstream ranking matches them by keyword,
// so the wording of each label decides its audit category.
const (
	IssueNoSSL          = "Pas de certificat SSL (HTTP au lieu de HTTPS)"
	IssueTitle          = "Titre de page manquant ou trop court"
	IssueMeta           = "Meta description manquante"
	IssueSlowFormat     = "Site lent (%dms)"
	IssueViewport       = "Pas de viewport mobile détecté"
	IssueContact        = "Aucun formulaire ni lien de contact"
	IssueFramework      = "Design daté, aucune technologie moderne détectée"
	IssueSocial         = "Aucun lien vers les réseaux sociaux"
	IssueHTTPFormat     = "Site inaccessible ou erreur HTTP (%d)"
	IssueFailurePrefix  = "Impossible d'analyser le site: "
	IssueUnreachable    = IssueFailurePrefix + "site injoignable"
	IssueTimeoutFormat  = IssueFailurePrefix + "délai dépassé (%dms)"
	OpportunitySSL      = "Migration vers HTTPS pour la sécurité"
	OpportunityTitle    = "Optimisation SEO du titre"
	OpportunityMeta     = "Ajout de meta descriptions pour le SEO"
	OpportunitySpeed    = "Optimisation des performances et vitesse de chargement"
	OpportunityMobile   = "Création d'une version mobile responsive"
	OpportunityContact  = "Ajout d'un formulaire de contact pour générer des leads"
	OpportunityRedesign = "Refonte avec un design moderne et attractif"
	OpportunitySocial   = "Intégration des réseaux sociaux pour plus de visibilité"
	OpportunityNewSite  = "Création d'un site web professionnel depuis zéro"
)

var frameworkFingerprints = []string{"react", "vue", "tailwind", "bootstrap"}

const (
	contactSelector = `form, a[href*="contact"], a[href^="mailto:"]`
	socialSelector  = `a[href*="facebook"], a[href*="instagram"], a[href*="linkedin"]`
)

// Analyzer derives website signals for a URL.
type Analyzer interface {
	Detect(ctx context.Context, url string) model.WebsiteSignals
}

// Option configures a Detector.
type Option func(*Detector)

// WithTimeout bounds the whole fetch.
func WithTimeout(d time.Duration) Option {
	return func(det *Detector) { det.timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every fetch.
func WithUserAgent(ua string) Option {
	return func(det *Detector) { det.userAgent = ua }
}

// WithSlowThreshold sets the load time above which a site is reported slow.
func WithSlowThreshold(d time.Duration) Option {
	return func(det *Detector) { det.slow = d }
}

// WithMaxBody limits the number of body bytes parsed.
func WithMaxBody(n int64) Option {
	return func(det *Detector) { det.maxBody = n }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(det *Detector) { det.http = hc }
}

// Detector is the net/http backed Analyzer.
type Detector struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	slow      time.Duration
	maxBody   int64
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		slow:      DefaultSlowThreshold,
		maxBody:   DefaultMaxBody,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Detect fetches url and returns its signals. It never fails: fetch and
// parse errors degrade to a non-existent site with one explanatory issue.
func (d *Detector) Detect(ctx context.Context, url string) model.WebsiteSignals {
	sig := model.WebsiteSignals{
		HasSSL:        strings.HasPrefix(url, "https://"),
		Issues:        []string{},
		Opportunities: []string{},
	}
	log := zap.L().With(zap.String("url", url))

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	body, status, elapsed, err := d.fetch(ctx, url)
	if err != nil {
		log.Debug("detector: fetch failed", zap.Error(err))
		return d.unreachable(sig, err)
	}
	ms := elapsed.Milliseconds()
	sig.LoadTimeMs = &ms

	if status < 200 || status > 299 {
		log.Debug("detector: unsuccessful status", zap.Int("status", status))
		sig.Issues = append(sig.Issues, fmt.Sprintf(IssueHTTPFormat, status))
		sig.Opportunities = append(sig.Opportunities, OpportunityNewSite)
		return sig
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Debug("detector: parse failed", zap.Error(err))
		return d.unreachable(sig, eris.Wrap(err, "detector: parse html"))
	}

	sig.Exists = true
	d.inspect(&sig, doc, string(body), elapsed)
	return sig
}

func (d *Detector) fetch(ctx context.Context, url string) ([]byte, int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, 0, eris.Wrap(err, "detector: create request")
	}
	req.Header.Set("User-Agent", d.userAgent)

	start := time.Now()
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, 0, 0, eris.Wrap(err, "detector: fetch")
	}
	elapsed := time.Since(start)
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, elapsed, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBody))
	if err != nil {
		return nil, 0, 0, eris.Wrap(err, "detector: read body")
	}
	return body, resp.StatusCode, elapsed, nil
}

// inspect runs the markup checks in their fixed order. Each failed check
// adds one issue and one opportunity.
func (d *Detector) inspect(sig *model.WebsiteSignals, doc *goquery.Document, raw string, elapsed time.Duration) {
	add := func(issue, opp string) {
		sig.Issues = append(sig.Issues, issue)
		sig.Opportunities = append(sig.Opportunities, opp)
	}

	if !sig.HasSSL {
		add(IssueNoSSL, OpportunitySSL)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		sig.PageTitle = &title
	}
	if utf8.RuneCountInString(title) < minTitleLength {
		add(IssueTitle, OpportunityTitle)
	}

	meta, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	meta = strings.TrimSpace(meta)
	if meta != "" {
		sig.MetaDescription = &meta
	} else {
		add(IssueMeta, OpportunityMeta)
	}

	if elapsed > d.slow {
		add(fmt.Sprintf(IssueSlowFormat, elapsed.Milliseconds()), OpportunitySpeed)
	}

	viewport := doc.Find(`meta[name="viewport"]`).Length() > 0
	sig.HasMobileViewport = &viewport
	if !viewport {
		add(IssueViewport, OpportunityMobile)
	}

	contact := doc.Find(contactSelector).Length() > 0
	sig.HasContactAffordance = &contact
	if !contact {
		add(IssueContact, OpportunityContact)
	}

	if !hasFramework(raw) {
		add(IssueFramework, OpportunityRedesign)
	}

	if doc.Find(socialSelector).Length() == 0 {
		add(IssueSocial, OpportunitySocial)
	}
}

func (d *Detector) unreachable(sig model.WebsiteSignals, err error) model.WebsiteSignals {
	sig.Exists = false
	sig.Issues = append(sig.Issues[:0], failureIssue(err, d.timeout))
	sig.Opportunities = append(sig.Opportunities[:0], OpportunityNewSite)
	return sig
}

// failureIssue picks the fixed issue label of a fetch error. The error text
// itself quotes the host name and stays in the logs: issue labels are
// classified by keyword downstream.
func failureIssue(err error, timeout time.Duration) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Sprintf(IssueTimeoutFormat, timeout.Milliseconds())
	}
	return IssueUnreachable
}

func hasFramework(html string) bool {
	lower := strings.ToLower(html)
	for _, f := range frameworkFingerprints {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
