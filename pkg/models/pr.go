package models

// PR represents a pull request with full detail data
type PR struct {
	Number       int      `json:"number"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	User         string   `json:"user"`
	Additions    int      `json:"additions"`
	Deletions    int      `json:"deletions"`
	ChangedFiles int      `json:"changedFiles"`
	FileList     []string `json:"fileList"`
	CreatedAt    string   `json:"createdAt"`
}

// BatchPR is a lightweight PR from the list endpoint (no file details)
type BatchPR struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	User      string `json:"user"`
	CreatedAt string `json:"createdAt"`
}

// EnrichedPRData holds detail fields fetched per-PR after the initial listing
type EnrichedPRData struct {
	Additions    int      `json:"additions"`
	Deletions    int      `json:"deletions"`
	ChangedFiles int      `json:"changedFiles"`
	FileList     []string `json:"fileList"`
}

// FullPR combines list data with enrichment data into a complete PR
func (p *BatchPR) FullPR(e EnrichedPRData) PR {
	return PR{
		Number:       p.Number,
		Title:        p.Title,
		Body:         p.Body,
		User:         p.User,
		Additions:    e.Additions,
		Deletions:    e.Deletions,
		ChangedFiles: e.ChangedFiles,
		FileList:     e.FileList,
		CreatedAt:    p.CreatedAt,
	}
}
