package reporter

import (
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/models"
)

// Report types raised by the SSL checks.
const (
	CertificateAuthorityInvalid models.ReportType = "certificate_authority_invalid"
	NoHTTPSRedirect             models.ReportType = "no_https_redirect"
	BadCertificateNames         models.ReportType = "bad_certificate_names"
	ExpiredSSLCertificate       models.ReportType = "expired_ssl_certificate"
)

// SSLChecksReporter reports certificate and HTTPS redirect problems.
type SSLChecksReporter struct {
	baseReporter
	extra config.ExtraModulesConfig
}

// NewSSLChecksReporter creates the reporter for ssl_checks results.
func NewSSLChecksReporter(extra config.ExtraModulesConfig) *SSLChecksReporter {
	return &SSLChecksReporter{
		baseReporter: baseReporter{
			receiver: "ssl_checks",
			types:    []models.ReportType{CertificateAuthorityInvalid, NoHTTPSRedirect, BadCertificateNames, ExpiredSSLCertificate},
			fragments: []Fragment{
				{ReportType: ExpiredSSLCertificate, Priority: 2, Template: "expired_ssl_certificate.html"},
				{ReportType: CertificateAuthorityInvalid, Priority: 2, Template: "certificate_authority_invalid.html"},
				{ReportType: BadCertificateNames, Priority: 2, Template: "bad_certificate_names.html"},
				{ReportType: NoHTTPSRedirect, Priority: 1, Template: "no_https_redirect.html"},
			},
		},
		extra: extra,
	}
}

// CreateReports creates one report per failed check of a usable response.
func (r *SSLChecksReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}

	domain, _ := result.Payload["domain"].(string)
	labels := slices.DeleteFunc(strings.Split(domain, "."), func(s string) bool { return s == "" })
	if len(labels) == 0 {
		return failed("ssl_checks result %s has no domain in its payload", result.ID)
	}
	if r.extra.SkipsSSLChecks(labels[0]) {
		return skipped("subdomain %q is excluded from SSL checks", labels[0])
	}

	obj, ok := decodeObject(result)
	if !ok {
		return skipped("result is not an object")
	}

	if reason := r.responseFilter(obj, domain); reason != "" {
		return skipped("%s", reason)
	}

	httpsTarget := "https://" + domain + ":443/"
	var reports []models.Report

	if boolField(obj, "certificate_authority_invalid") {
		reports = append(reports, newReport(result, httpsTarget, CertificateAuthorityInvalid, map[string]any{}))
	}

	if boolField(obj, "bad_redirect") {
		prefix, _ := stringField(obj, "response_content_prefix")
		if !hasMetaRefresh(prefix) {
			reports = append(reports, newReport(result, "http://"+domain+":80/", NoHTTPSRedirect, map[string]any{}))
		}
	}

	if boolField(obj, "cn_different_from_hostname") {
		names := stringList(listField(obj, "names"))
		// www.example.com with a certificate for example.com is fine.
		wwwAlias := strings.HasPrefix(domain, "www.") && slices.Contains(names, strings.TrimPrefix(domain, "www."))
		if !wwwAlias {
			slices.Sort(names)
			names = slices.Compact(names)
			reports = append(reports, newReport(result, httpsTarget, BadCertificateNames, map[string]any{
				"names_string": strings.Join(names, ", "),
			}))
		}
	}

	if boolField(obj, "expired") {
		reports = append(reports, newReport(result, httpsTarget, ExpiredSSLCertificate, map[string]any{
			"expiry_date": obj["expiry_date"],
		}))
	}

	return Outcome{Reports: reports}
}

// responseFilter returns why a result should not be reported, or "".
func (r *SSLChecksReporter) responseFilter(obj map[string]any, domain string) string {
	status, hasStatus := obj["response_status_code"].(float64)
	prefix, hasPrefix := stringField(obj, "response_content_prefix")
	if !hasStatus || !hasPrefix {
		return ""
	}

	code := int(status)
	// Other 4xx codes, such as 401 on a login panel, are still worth reporting.
	if code == 400 || code == 403 || code == 404 || (code >= 500 && code <= 599) {
		return "response status code is an error"
	}
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" || !strings.Contains(strings.ToLower(prefix), "<html") {
		return "response is not an HTML page"
	}
	if len(trimmed) < r.extra.SSLChecksMinResponseLength {
		return "response is too short"
	}

	if !boolField(obj, "bad_redirect") {
		if redirectURL, ok := stringField(obj, "redirect_url"); ok {
			parsed, err := url.Parse(redirectURL)
			if err != nil || parsed.Hostname() != domain {
				return "redirects to another host"
			}
		}
	}
	return ""
}

// Score is the URL score of the checked site.
func (r *SSLChecksReporter) Score(report models.Report) int {
	return URLScore(report.Target)
}

// NormalForm identifies a finding by type and URL.
func (r *SSLChecksReporter) NormalForm(report models.Report) NormalForm {
	return NormalForm{"type": string(report.ReportType), "target": URLNormalForm(report.Target)}
}

// hasMetaRefresh reports whether the page redirects with a meta refresh.
func hasMetaRefresh(content string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.ToLower(content)))
	if err != nil {
		return false
	}
	return doc.Find(`meta[http-equiv="refresh"]`).Length() > 0
}

func stringList(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
