// Package enhance rewrites and annotates transcripts via a remote chat
// completion endpoint.
//
// Core types:
//   - Client: Chat-completion client with a fixed system instruction and
//     a single fixed function tool declaration
//   - Result: Polished text, tags, and a reflection note
//   - Markers: The literal section labels delimiting the response
//
// The response body is marker-delimited text. Sections missing from the
// response leave the matching Result field empty; this degrades
// gracefully and is not an error.
package enhance
