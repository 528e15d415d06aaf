// Package transcode wraps the external transcoding engine (ffmpeg) behind
// the Engine interface.
//
// The engine is a black box: given a source path, codec, bitrate, and a
// destination path carrying the target container extension, it either
// produces a valid encoded file and exits zero, or exits non-zero with
// diagnostics on stderr. Codec identifiers are restricted to a closed set
// validated before any work starts.
package transcode
