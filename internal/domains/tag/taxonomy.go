package tag

// The platform uses a fixed AI taxonomy. Tags outside this list are never
// tracked or suggested; content referencing them is rejected at validation.
var Taxonomy = []string{
	// Core AI/ML
	"LLMs",
	"RAG",
	"Agents",
	"Fine-tuning",
	"Prompting",

	// Infrastructure
	"Vector DBs",
	"Embeddings",
	"Training",
	"Inference",

	// Governance
	"Ethics",
	"Safety",
	"Benchmarks",
	"Datasets",
	"Tools",

	// Applications
	"Computer Vision",
	"NLP",
	"Speech",
	"Robotics",
	"RL",
}

// Descriptions shown in tag listings and used for keyword-based suggestion.
var Descriptions = map[string]string{
	"LLMs":            "Large Language Models - Foundation models like GPT, Claude, LLaMA",
	"RAG":             "Retrieval-Augmented Generation - Combining retrieval with generation",
	"Agents":          "AI Agents & Multi-agent systems",
	"Fine-tuning":     "Model fine-tuning techniques and best practices",
	"Prompting":       "Prompt engineering and optimization",
	"Vector DBs":      "Vector databases for similarity search",
	"Embeddings":      "Embedding models & techniques",
	"Training":        "Model training infrastructure and methods",
	"Inference":       "Model inference & deployment",
	"Ethics":          "AI ethics and responsible AI",
	"Safety":          "AI safety & alignment research",
	"Benchmarks":      "Evaluation metrics & benchmarks",
	"Datasets":        "Datasets & data preparation",
	"Tools":           "AI tools, frameworks, and libraries",
	"Computer Vision": "Computer vision applications and models",
	"NLP":             "Natural Language Processing",
	"Speech":          "Speech recognition & synthesis",
	"Robotics":        "Robotics & embodied AI",
	"RL":              "Reinforcement Learning",
}

// Relationships drive "related tags" in discovery views.
var Relationships = map[string][]string{
	"RAG":             {"Vector DBs", "Embeddings", "LLMs"},
	"Agents":          {"LLMs", "Tools", "Prompting"},
	"Fine-tuning":     {"LLMs", "Training", "Datasets"},
	"Prompting":       {"LLMs", "Agents"},
	"Vector DBs":      {"RAG", "Embeddings"},
	"Embeddings":      {"RAG", "Vector DBs", "NLP"},
	"Training":        {"Fine-tuning", "Datasets", "Inference"},
	"Inference":       {"Training", "Tools"},
	"Computer Vision": {"Training", "Datasets", "Inference"},
	"NLP":             {"LLMs", "Embeddings", "Prompting"},
	"Speech":          {"NLP", "Training"},
	"Robotics":        {"RL", "Computer Vision"},
	"RL":              {"Agents", "Robotics", "Training"},
}

var taxonomySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Taxonomy))
	for _, t := range Taxonomy {
		set[t] = struct{}{}
	}
	return set
}()

// IsValid reports whether a tag belongs to the taxonomy. Case-sensitive.
func IsValid(tag string) bool {
	_, ok := taxonomySet[tag]
	return ok
}

// Related returns up to limit related tags for a taxonomy tag.
func Related(tag string, limit int) []string {
	related := Relationships[tag]
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}
	out := make([]string, len(related))
	copy(out, related)
	return out
}

// ValidateTags checks that every tag is in the taxonomy, returning the first
// offender.
func ValidateTags(tags []string) (string, bool) {
	for _, t := range tags {
		if !IsValid(t) {
			return t, false
		}
	}
	return "", true
}
