package content

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions (without dot) to language names.
var extensionLanguages = map[string]string{
	"go": "Go",
	"py": "Python", "pyi": "Python",
	"js": "JavaScript", "jsx": "JavaScript", "mjs": "JavaScript",
	"ts": "TypeScript", "tsx": "TypeScript",
	"rs":    "Rust",
	"java":  "Java",
	"kt":    "Kotlin",
	"c":     "C",
	"h":     "C",
	"cpp":   "C++",
	"cc":    "C++",
	"hpp":   "C++",
	"cs":    "C#",
	"rb":    "Ruby",
	"php":   "PHP",
	"swift": "Swift",
	"scala": "Scala",
	"ex":    "Elixir", "exs": "Elixir",
	"erl": "Erlang",
	"hs":  "Haskell",
	"lua": "Lua",
	"zig": "Zig",
	"sh":  "Shell", "bash": "Shell", "zsh": "Shell",
	"ps1":  "PowerShell",
	"html": "HTML", "htm": "HTML",
	"css": "CSS", "scss": "SCSS",
	"sql":   "SQL",
	"proto": "Protobuf",
	"json":  "JSON",
	"yaml":  "YAML", "yml": "YAML",
	"toml": "TOML",
	"xml":  "XML",
	"ini":  "INI",
	"md":   "Markdown",
	"rst":  "reStructuredText",
	"tex":  "LaTeX",
	"txt":  "Text",
	"csv":  "CSV",
	"tf":   "Terraform",
	"vue":  "Vue",
}

// DetectLanguage returns the language for a file path based on its extension,
// falling back to well-known filenames. Returns "Unknown" when unrecognized.
func DetectLanguage(filePath string) string {
	base := strings.ToLower(filepath.Base(filePath))
	switch base {
	case "makefile", "gnumakefile":
		return "Makefile"
	case "dockerfile", "containerfile":
		return "Dockerfile"
	case "cmakelists.txt":
		return "CMake"
	case "go.mod", "go.sum":
		return "Go Module"
	case "gemfile", "rakefile":
		return "Ruby"
	case ".gitignore", ".gitattributes", ".lensignore":
		return "Git Config"
	}

	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return "Unknown"
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return "Unknown"
}
