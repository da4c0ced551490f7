package domain

// ResourceStatus tracks how a single artifact can be (or was) acquired.
type ResourceStatus string

const (
	StatusDownloadable   ResourceStatus = "downloadable"
	StatusUnavailable    ResourceStatus = "unavailable"
	StatusManualRequired ResourceStatus = "manual_required"
	StatusPresent        ResourceStatus = "present"
	StatusDownloaded     ResourceStatus = "downloaded"
)

// ResourceCategory classifies supplementary resources attached to an article.
type ResourceCategory string

const (
	CategoryPeerReview    ResourceCategory = "peer_review"
	CategoryData          ResourceCategory = "data"
	CategorySupplementary ResourceCategory = "supplementary"
)

// PeerReviewFileName is the fixed on-disk name for peer-review resources.
const PeerReviewFileName = "Peer_Review_File.pdf"

// SupplementaryResource is one auxiliary file referenced by an article page.
// Filenames are unique within one article after collision resolution.
type SupplementaryResource struct {
	URL      string
	LinkText string
	Filename string
	Category ResourceCategory
}

// ArticleCandidate is one article discovered during screening, read-only once
// extracted from its page.
type ArticleCandidate struct {
	Journal       string
	Category      string
	URL           string
	Title         string
	PublishedDate string
	DOI           string
	GitHubRepos   []string
	PDFURL        string
	Resources     []SupplementaryResource
}

// PeerReviewResource returns the first peer-review resource, if any.
func (a ArticleCandidate) PeerReviewResource() (SupplementaryResource, bool) {
	for _, res := range a.Resources {
		if res.Category == CategoryPeerReview {
			return res, true
		}
	}
	return SupplementaryResource{}, false
}

// ScreeningResult couples a candidate with its resolved acquisition plan.
// Produced once by screening, consumed once by acquisition, never mutated.
type ScreeningResult struct {
	Article          ArticleCandidate
	CodeZipURL       string
	CodeRepo         string
	PeerReview       SupplementaryResource
	PDFStatus        ResourceStatus
	PeerReviewStatus ResourceStatus
	CodeStatus       ResourceStatus
}
