package download

// Package download implements the core pipeline: it resolves a URL into a
// single video or a playlist, projects the user-facing choices from what was
// resolved, and drives stream transfers with progress reporting and optional
// caption side-files. The video site itself is reached through the Extractor
// collaborator (see platform.YouTubeExtractor).
