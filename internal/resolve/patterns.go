// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "strings"

// stopwords are dropped from keyword sets and significant-word lists.
var stopwords = wordSet(
	"a", "an", "the", "of", "for", "with", "in", "on", "to", "and", "or", "via",
	"by", "from", "at", "as", "into", "using", "based", "towards", "toward",
	"through", "over", "under", "is", "are", "be", "we", "our", "its", "it",
	"this", "that", "these", "new", "novel", "not", "all", "can", "do", "does",
	"model", "models", "method", "methods", "approach", "approaches",
	"framework", "frameworks", "technique", "techniques", "study",
)

// implementationPatterns in a repository name suggest a paper implementation.
var implementationPatterns = []string{
	"implementation", "official", "pytorch", "tensorflow", "jax", "code",
	"paper", "impl", "reproduc",
}

// paperIndicators in a description suggest the repository accompanies a paper.
var paperIndicators = []string{
	"implementation", "official", "reproduction", "reproduce", "code for",
	"paper", "arxiv",
}

// academicIndicators in a README point at a citation or preprint.
var academicIndicators = []string{"arxiv", "paper", "bibtex", "citation"}

// genericTools are popular repositories that are never a paper's code.
var genericTools = wordSet(
	"howdoi", "thefuck", "youtube-dl", "yt-dlp", "you-get", "httpie", "tldr",
	"public-apis", "free-programming-books", "system-design-primer",
	"developer-roadmap", "coding-interview-university", "the-art-of-command-line",
	"build-your-own-x", "javascript-algorithms", "fzf", "ohmyzsh", "ripgrep",
	"homebrew", "requests", "flask", "django", "scrapy", "pandas", "numpy",
	"scikit-learn", "keras", "tensorflow", "pytorch", "opencv", "langchain",
	"stable-diffusion-webui", "comfyui", "ollama", "transformers", "diffusers",
	"models", "examples", "tutorials",
)

// genericNamePatterns mark lists, tutorials and other non-implementations.
var genericNamePatterns = []string{
	"awesome", "tutorial", "collection", "list", "roadmap", "interview",
	"cheatsheet", "resources", "course", "examples", "notes", "papers",
	"book", "guide",
}

// utilityPatterns mark general-purpose tools and libraries.
var utilityPatterns = []string{
	"tool", "utility", "utils", "util", "framework", "library", "toolkit",
	"toolbox", "sdk", "cli", "helper",
}

// suspiciousPatterns drive the audit of generic high-star matches.
var suspiciousPatterns = []string{
	"tool", "utility", "framework", "awesome", "list", "collection", "tutorial",
}

// auditCommonWords never count as specific evidence in the audit.
var auditCommonWords = wordSet(
	"model", "deep", "learning", "neural", "network", "using", "with", "based",
)

// modelCommonWords never count as meaningful overlap in the model-name audit.
var modelCommonWords = wordSet(
	"deep", "learning", "neural", "network", "model", "gan", "net", "transformer",
)

// trivialDescriptions are placeholders that carry no evidence.
var trivialDescriptions = wordSet(
	"no description", "my project", "test", "demo", "todo", "wip", "code", "repo",
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// genericTerms are research vocabulary too common to identify a paper. They
// never count as keyword evidence on their own.
var genericTerms = wordSet(
	"deep", "learning", "neural", "network", "networks", "survey", "review",
	"analysis", "data", "dataset", "datasets", "system", "systems", "image",
	"images", "video", "vision", "language", "training", "efficient", "robust",
	"large", "scale", "fast", "simple", "unified", "general", "improved",
	"benchmark", "task", "tasks",
)

func isGenericTerm(w string) bool {
	_, ok := genericTerms[strings.ToLower(w)]
	return ok
}
