// Package rules decides, for a single file, which action applies: drop it,
// transcode it, or copy it unchanged.
//
// Classification is a pure function of the relative path, the configured
// ignore globs, and the ordered transcode rule list. The ignore globs win
// over everything, then the first rule whose input extension matches, then
// plain copy. Rule strings follow the original CLI grammar
// INPUT-EXT:OUTPUT-CODEC:OUTPUT-EXT:BITRATE.
package rules
