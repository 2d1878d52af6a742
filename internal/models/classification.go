package models

// ClassificationResult is the transient output of a classify call.
type ClassificationResult struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Confidence  int    `json:"confidence"`
	MatchedBy   string `json:"matched_by"`
}

// IsAccepted reports whether the result cleared the confidence threshold.
func (r ClassificationResult) IsAccepted() bool {
	return r.Category != CategoryUncategorized
}

// CategoryInfo is one entry of the public category listing.
type CategoryInfo struct {
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory" yaml:"subcategory"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
}
