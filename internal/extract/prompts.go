package extract

import (
	"encoding/json"
	"fmt"
)

// The prompts carry all the extraction rules; the code only renders
// them and validates what comes back. Topic-count scaling by text
// length is guidance for the model, deliberately not enforced in code.

const topicPrompt = `You are an expert content analyst specializing in clearly identifying and labeling topics of discussion from source text while preserving their chronological order.

Instructions

1. Read the provided source text carefully from start to finish.
2. Analyze the text and identify distinct, clearly defined topics of discussion as they naturally emerge.
3. Detect topic boundaries by:
   - Changes in subject matter
   - New questions or arguments introduced
   - Shifts in technical, economic, social, or strategic focus
4. Assign each discussion segment a concise, descriptive, and simple topic label (3-10 words), ensuring each label is clear and easy to understand at first glance.
5. Preserve the order in which topics appear in the text.
6. Merge adjacent segments if they clearly belong to the same topic to avoid redundancy.
7. Only generate topics if multiple distinct claims or points are discussed under that topic in the text. If a subject is only touched on once with a single claim or point, do not generate a separate topic for it.

Constraints
- Output must be valid JSON matching the requested schema.
- List topics in order of appearance, not importance.
- Topic names must be:
  - General (not overly granular)
  - Specific (not overly vague like "Space" or "Technology")
  - Clear and simple on first reading
  - Directly supported by the source text (do not invent)
- Scale topic count to text length:
  - Extract 2-5 topics for short texts (under 1000 words)
  - Extract 4-8 topics for medium texts (1000-5000 words)
  - Extract 6-12 topics for long texts (over 5000 words)

Source text:
%s`

const claimPrompt = `You are an expert fact extractor. You are given a source text and an ordered list of topics already identified in it. Extract the factual claims made in the text, grouped under those topics.

Rules for every claim:

1. Each claim must read correctly in complete isolation, without its topic label or any other claim for context. No pronouns referring outside the sentence, no "this", "it", or "the aforementioned X" - name the subject explicitly every time.
2. Each claim expresses exactly one verifiable fact. Split compound sentences into separate claims.
3. State facts directly rather than as attributed quotations ("Inflation rose 3%%.", not "The report says inflation rose 3%%."), except for genuinely biographical statements about what a person said or believes.
4. Target length 5-32 words per claim.
5. Preserve the order in which claims appear in the source text within each topic.

Rules for grouping:

- Use ONLY topic labels from the provided topic list, exactly as given. Do not invent new topics.
- Keep the groups in the same order as the topic list.
- Omit a topic entirely rather than filling it with padding if the text carries no claims for it.

Constraints
- Output must be valid JSON matching the requested schema.
- Do not include any additional fields, metadata, explanations, or prose.

Topics:
%s

Source text:
%s`

// renderTopicPrompt substitutes the source text into the topic
// extraction prompt.
func renderTopicPrompt(sourceText string) string {
	return fmt.Sprintf(topicPrompt, sourceText)
}

// renderClaimPrompt substitutes the topic list (as a JSON array, so
// labels survive quoting) and the source text into the claim
// extraction prompt.
func renderClaimPrompt(sourceText string, topics []string) string {
	topicsJSON, _ := json.Marshal(topics)
	return fmt.Sprintf(claimPrompt, string(topicsJSON), sourceText)
}
