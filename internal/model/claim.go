package model

// Claim is one row of the flattened extraction output: a single
// self-contained factual statement paired with the topic it was filed
// under. This is the API-facing shape; the LLM-facing group shape lives
// in the extract package and is mapped into this one by the pipeline.
type Claim struct {
	Topic string `json:"claim_topic"`
	Text  string `json:"claim"`
}
