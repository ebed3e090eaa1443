package models

// ExtractedLink is a URL found in an HTML document together with where it
// was found.
type ExtractedLink struct {
	AbsoluteURL string `json:"absolute_url"`
	SourceTag   string `json:"source_tag,omitempty"`  // e.g., "a", "script"
	SourceAttr  string `json:"source_attr,omitempty"` // e.g., "href", "src", "inline"
}

// AssetType classifies an Asset discovered by a scanning module.
type AssetType string

const (
	AssetTypeVPN AssetType = "vpn"
)

// Asset is something worth inventorying that is not a vulnerability, such
// as an exposed VPN gateway.
type Asset struct {
	Type           AssetType `json:"asset_type"`
	Name           string    `json:"name"`
	AdditionalType string    `json:"additional_type,omitempty"`
}
