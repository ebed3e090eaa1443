package reporter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/models"
)

// SubdomainTakeoverPossible is reported for confirmed dangling records.
const SubdomainTakeoverPossible models.ReportType = "subdomain_takeover_possible"

const confidenceConfirmed = "CONFIRMED"

// DNSReaperReporter reports dangling DNS records that allow a subdomain
// takeover.
type DNSReaperReporter struct {
	baseReporter
}

// NewDNSReaperReporter creates the reporter for dns_reaper results.
func NewDNSReaperReporter() *DNSReaperReporter {
	return &DNSReaperReporter{baseReporter{
		receiver:  "dns_reaper",
		types:     []models.ReportType{SubdomainTakeoverPossible},
		fragments: []Fragment{{ReportType: SubdomainTakeoverPossible, Priority: 10, Template: "subdomain_takeover_possible.html"}},
	}}
}

type dnsReaperFinding struct {
	Domain     string `json:"domain"`
	Info       string `json:"info"`
	Confidence string `json:"confidence"`
}

// CreateReports creates one report per CONFIRMED finding, translated into lang.
func (r *DNSReaperReporter) CreateReports(result models.TaskResult, lang Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	items, ok := decodeList(result)
	if !ok {
		return skipped("result is not a list")
	}

	var reports []models.Report
	for _, item := range items {
		var finding dnsReaperFinding
		if err := json.Unmarshal(item, &finding); err != nil {
			return failed("malformed dns_reaper finding: %w", err)
		}
		if finding.Confidence != confidenceConfirmed {
			continue
		}
		translated, err := translateTakeoverMessage(finding.Info, lang)
		if err != nil {
			return Outcome{Err: err}
		}
		reports = append(reports, newReport(result, finding.Domain, SubdomainTakeoverPossible, map[string]any{
			"message_en":         finding.Info,
			"message_translated": translated,
		}))
	}
	return Outcome{Reports: reports}
}

// Score is the domain score of the affected subdomain.
func (r *DNSReaperReporter) Score(report models.Report) int {
	return DomainScore(report.Target)
}

// NormalForm identifies a takeover by domain and message.
func (r *DNSReaperReporter) NormalForm(report models.Report) NormalForm {
	return NormalForm{
		"type":    string(report.ReportType),
		"target":  DomainNormalForm(report.Target),
		"message": report.AdditionalData["message_en"],
	}
}

// translateTakeoverMessage translates a dns_reaper message. Messages missing
// from the dictionary are kept in English.
func translateTakeoverMessage(info string, lang Language) (string, error) {
	switch {
	case lang.IsEnglish():
		return info, nil
	case lang.IsPolish():
		if translated, ok := translateUsingDictionary(info, takeoverMessagesPL); ok {
			return translated, nil
		}
		return info, nil
	default:
		return "", fmt.Errorf("%w: %s", errorwrapper.ErrUnsupportedLanguage, lang)
	}
}

type translationPair struct {
	original   string
	translated string
}

func translateUsingDictionary(message string, dictionary []translationPair) (string, bool) {
	trimmed := strings.TrimSpace(message)
	for _, pair := range dictionary {
		if strings.TrimSpace(pair.original) == trimmed {
			return pair.translated, true
		}
	}
	return message, false
}
