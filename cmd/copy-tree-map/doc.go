// Command copy-tree-map clones a directory tree into a new location,
// copying files by default, dropping files that match ignore globs, and
// transcoding audio files through ffmpeg according to colon-delimited
// mapping rules.
package main
