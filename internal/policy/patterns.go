package policy

// hardDenyGlobs are always-on patterns covering dependencies, VCS, build
// outputs, secrets, lockfiles, IDE config and test caches. They apply
// regardless of user configuration.
var hardDenyGlobs = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
	"**/out/**",
	"**/.next/**",
	"**/.nuxt/**",
	"**/coverage/**",
	"**/.venv/**",
	"**/venv/**",
	"**/__pycache__/**",
	"**/.pytest_cache/**",
	"**/.mypy_cache/**",
	"**/.tox/**",
	"**/.env",
	"**/.env.*",
	"**/*.pem",
	"**/*.key",
	"**/*.pfx",
	"**/*.p12",
	"**/id_rsa",
	"**/id_rsa.pub",
	"**/*.lock",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/Cargo.lock",
	"**/.idea/**",
	"**/.vscode/**",
	"**/.DS_Store",
	"**/*.test.cache",
	"**/.cortexcore/**",
}

// binaryExtensions short-circuits known binary types without reading their
// content.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true, ".svgz": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".wav": true, ".flac": true, ".ogg": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".class": true, ".jar": true, ".wasm": true, ".pyc": true, ".o": true,
	".a": true, ".db": true, ".sqlite": true, ".sqlite3": true,
}

// textExtensions short-circuits known text types to "text" without
// sniffing content.
var textExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".mjs": true, ".cjs": true, ".py": true, ".rs": true, ".java": true,
	".c": true, ".h": true, ".cc": true, ".cpp": true, ".hpp": true,
	".cs": true, ".rb": true, ".php": true, ".swift": true, ".kt": true,
	".scala": true, ".md": true, ".mdx": true, ".txt": true, ".json": true,
	".yaml": true, ".yml": true, ".toml": true, ".xml": true, ".html": true,
	".css": true, ".scss": true, ".less": true, ".sh": true, ".bash": true,
	".sql": true, ".proto": true, ".graphql": true, ".vue": true,
	".svelte": true,
}
