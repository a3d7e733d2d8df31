package model

// Package model defines domain data structures used across the app: resolved
// targets (single videos and playlists), stream and caption descriptors,
// download options, progress snapshots and the explicit session value that
// the presentation layers carry between interactions.
