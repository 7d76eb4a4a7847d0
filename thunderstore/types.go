package thunderstore

// PackageListing is one raw feed record from the Thunderstore package list.
type PackageListing struct {
	Name           string           `json:"name"`
	FullName       string           `json:"full_name"`
	Owner          string           `json:"owner"`
	PackageURL     string           `json:"package_url"`
	DonationLink   string           `json:"donation_link,omitempty"`
	DateCreated    string           `json:"date_created"`
	DateUpdated    string           `json:"date_updated"`
	UUID4          string           `json:"uuid4"`
	RatingScore    int64            `json:"rating_score"`
	IsPinned       bool             `json:"is_pinned"`
	IsDeprecated   bool             `json:"is_deprecated"`
	HasNSFWContent bool             `json:"has_nsfw_content"`
	Categories     []string         `json:"categories"`
	Versions       []PackageVersion `json:"versions"`
}

// PackageVersion is one released version of a package. The feed lists them
// most-recent-first.
type PackageVersion struct {
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Icon          string   `json:"icon"`
	VersionNumber string   `json:"version_number"`
	Dependencies  []string `json:"dependencies"`
	DownloadURL   string   `json:"download_url"`
	Downloads     int64    `json:"downloads"`
	DateCreated   string   `json:"date_created"`
	WebsiteURL    string   `json:"website_url"`
	IsActive      bool     `json:"is_active"`
	UUID4         string   `json:"uuid4"`
	FileSize      int64    `json:"file_size"`
}
