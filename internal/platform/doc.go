package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, the YouTube extraction adapter, and OS open/reveal.
