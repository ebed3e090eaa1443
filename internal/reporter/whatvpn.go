package reporter

import (
	"strings"

	"github.com/aleister1102/artemis-extras/internal/models"
)

// WhatVPNReporter records detected VPN gateways as assets. It produces no
// reports.
type WhatVPNReporter struct {
	baseReporter
}

// NewWhatVPNReporter creates the reporter for what-vpn results.
func NewWhatVPNReporter() *WhatVPNReporter {
	return &WhatVPNReporter{baseReporter{receiver: "what-vpn"}}
}

// CreateReports turns the detected VPN type into an asset.
func (r *WhatVPNReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	var vpnType string
	if err := result.DecodeResult(&vpnType); err != nil {
		return failed("result is not a string: %w", err)
	}
	return Outcome{Assets: []models.Asset{{
		Type:           models.AssetTypeVPN,
		Name:           result.TargetString,
		AdditionalType: strings.TrimSpace(vpnType),
	}}}
}
