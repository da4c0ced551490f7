package domain

// StatusSet holds the per-resource terminal statuses of one article.
type StatusSet struct {
	PDF        ResourceStatus `json:"pdf"`
	PeerReview ResourceStatus `json:"peer_review"`
	Code       ResourceStatus `json:"code"`
}

// OutputPaths records where an article's artifacts live. All paths except
// ArticleDir are relative to the article directory.
type OutputPaths struct {
	ArticleDir         string   `json:"article_dir"`
	PDF                string   `json:"pdf"`
	CodeZip            string   `json:"code_zip"`
	SupplementaryFiles []string `json:"supplementary_files"`
	DataFiles          []string `json:"data_files"`
	PeerReviewFile     string   `json:"peer_review_file"`
}

// ESMItem is the persisted form of one supplementary resource.
type ESMItem struct {
	URL      string `json:"url"`
	LinkText string `json:"link_text"`
	Filename string `json:"filename"`
	Category string `json:"category"`
}

// ArticleRecord is the durable per-article metadata, the single source of
// truth for resumability and the summary pass.
type ArticleRecord struct {
	Journal        string            `json:"journal"`
	Category       string            `json:"category"`
	Title          string            `json:"title"`
	URL            string            `json:"url"`
	PublishedDate  string            `json:"published_date"`
	DOI            string            `json:"doi"`
	GitHubRepos    []string          `json:"github_repos"`
	UsedGitHubRepo string            `json:"used_github_repo"`
	PDFURL         string            `json:"pdf_url"`
	Status         StatusSet         `json:"status"`
	ManualRequired []string          `json:"manual_required"`
	Output         OutputPaths       `json:"output"`
	ESMMapping     map[string]string `json:"esm_mapping"`
	ESMResources   []ESMItem         `json:"esm_resources"`
}
