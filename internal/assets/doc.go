// Package assets resolves logo and seal image files into self-contained
// inline representations embeddable in card markup.
//
// Rendered cards are loaded by the browser from a transient local file, so
// externally referenced images would be unreliable or need network access.
// Inlining every image as a base64 data URI makes each document
// self-sufficient.
package assets
